package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Languages tried in order when fetching a transcript. English first,
// Hindi as the single fallback.
var transcriptLanguages = []string{"en", "hi"}

// fetchTranscript is swappable so handler tests can stub out the network.
var fetchTranscript = fetchTranscriptInnertube

// extractVideoID pulls the video ID from a YouTube URL.
// Supported formats:
//   - youtu.be/VIDEO_ID
//   - youtube.com/watch?v=VIDEO_ID
//   - youtube.com/embed/VIDEO_ID
//   - youtube.com/v/VIDEO_ID
//
// Any other host or path returns false, as does a URL that fails to parse.
// Video IDs are opaque: no format validation is done here.
func extractVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	switch u.Hostname() {
	case "youtu.be":
		id := strings.TrimPrefix(u.Path, "/")
		return id, id != ""
	case "youtube.com", "www.youtube.com":
		switch {
		case u.Path == "/watch":
			id := u.Query().Get("v")
			return id, id != ""
		case strings.HasPrefix(u.Path, "/embed/"), strings.HasPrefix(u.Path, "/v/"):
			parts := strings.Split(u.Path, "/")
			if len(parts) > 2 && parts[2] != "" {
				return parts[2], true
			}
		}
	}

	return "", false
}

// resolveTranscript fetches the transcript for a video, trying each supported
// language in order. Per-language failures are logged and swallowed; the error
// returned here means no language produced a transcript.
func resolveTranscript(videoID string) (transcript, language string, err error) {
	for _, lang := range transcriptLanguages {
		text, err := fetchTranscript(videoID, lang)
		if err != nil {
			logWarn("transcript fetch failed",
				slog.String("video_id", videoID),
				slog.String("language", lang),
				slog.String("error", err.Error()))
			continue
		}
		return text, lang, nil
	}
	return "", "", fmt.Errorf("no transcript available for video %s in any supported language", videoID)
}
