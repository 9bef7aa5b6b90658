package ui

import (
	"embed"
	"net/http"

	"vidrelay/internal/config"
)

//go:embed assets
var Assets embed.FS

type TemplateHandler struct {
	config *config.Config
}

func NewTemplateHandler(cfg *config.Config) *TemplateHandler {
	return &TemplateHandler{config: cfg}
}

func (th *TemplateHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>VidRelay - Video Downloader</title>
    <link rel="stylesheet" href="/assets/css/style.css">
</head>
<body>
    <header class="main-header">
        <h1>VidRelay</h1>
        <p>Download videos from YouTube, TikTok and Facebook</p>
    </header>

    <main class="container">
        <section class="card">
            <form id="downloadForm">
                <div class="input-row">
                    <input type="text" id="urlInput" placeholder="Paste a video URL..." autocomplete="off">
                    <button type="button" id="pasteBtn" title="Paste from clipboard">Paste</button>
                    <button type="button" id="clearBtn" title="Clear">Clear</button>
                </div>
                <div class="format-row">
                    <label class="format-option">
                        <input type="radio" name="format" value="mp4" id="format-mp4" checked>
                        <span>MP4 Video</span>
                    </label>
                    <label class="format-option">
                        <input type="radio" name="format" value="mp3" id="format-mp3">
                        <span>MP3 Audio</span>
                    </label>
                </div>
                <button type="submit" id="downloadBtn" class="btn-primary">Download</button>
            </form>

            <div id="loading" class="panel hidden">
                <div class="spinner"></div>
                <p>Processing your video...</p>
            </div>

            <div id="successResult" class="panel hidden">
                <div id="thumbnailPreview" class="thumbnail"></div>
                <div id="fileInfo" class="file-info"></div>
                <a id="downloadLink" class="btn-primary" target="_blank">Download File Now</a>
            </div>

            <div id="errorResult" class="panel panel-error hidden">
                <p id="errorMessage"></p>
                <button id="retryBtn" class="btn-secondary">Try Again</button>
            </div>
        </section>

        <section class="card">
            <h2>Recent Downloads <span id="historyCount" class="badge">0</span></h2>
            <div id="historyList"></div>
            <div id="clearHistorySection" class="hidden">
                <button id="clearHistoryBtn" class="btn-secondary">Clear History</button>
            </div>
        </section>
    </main>

    <script src="/assets/js/app.js"></script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
