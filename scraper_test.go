package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckPlayability(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		reason  string
		liveID  string
		wantErr string // empty = playable
	}{
		{"ok", "OK", "", "", ""},
		{"unplayable", "UNPLAYABLE", "This video is private", "", "unavailable"},
		{"age restricted", "LOGIN_REQUIRED", "Sign in to confirm your age", "", "age-restricted"},
		{"login required", "LOGIN_REQUIRED", "Sign in to watch", "", "login required"},
		{"error status", "ERROR", "Video unavailable", "", "video error"},
		{"live stream", "OK", "", "live12345ab", "live stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pr playerResponse
			pr.PlayabilityStatus.Status = tt.status
			pr.PlayabilityStatus.Reason = tt.reason
			pr.PlayabilityStatus.LiveStreamability.LiveStreamabilityRenderer.VideoID = tt.liveID

			err := checkPlayability(&pr)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("checkPlayability() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSelectCaptionTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "http://x/hi", LanguageCode: "hi"},
		{BaseURL: "http://x/en-US", LanguageCode: "en-US"},
		{BaseURL: "http://x/en", LanguageCode: "en", Kind: "asr"},
	}

	tests := []struct {
		name string
		lang string
		want string // expected BaseURL, empty = no match
	}{
		{"exact match preferred over variant", "en", "http://x/en"},
		{"exact hindi", "hi", "http://x/hi"},
		{"no match means no track", "fr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := selectCaptionTrack(tracks, tt.lang)
			if tt.want == "" {
				if track != nil {
					t.Errorf("selectCaptionTrack() = %v, want nil", track.BaseURL)
				}
				return
			}
			if track == nil {
				t.Fatalf("selectCaptionTrack() = nil, want %q", tt.want)
			}
			if track.BaseURL != tt.want {
				t.Errorf("selectCaptionTrack() = %q, want %q", track.BaseURL, tt.want)
			}
		})
	}
}

func TestSelectCaptionTrackRegionalVariant(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "http://x/en-GB", LanguageCode: "en-GB"},
	}

	track := selectCaptionTrack(tracks, "en")
	if track == nil || track.BaseURL != "http://x/en-GB" {
		t.Errorf("expected en-GB to satisfy a request for en, got %v", track)
	}
}

func TestSelectCaptionTrackNoCrossLanguageFallback(t *testing.T) {
	// A video captioned only in Spanish has no English transcript; the
	// language fallback policy lives in the caller, not here.
	tracks := []captionTrack{
		{BaseURL: "http://x/es", LanguageCode: "es"},
	}

	if track := selectCaptionTrack(tracks, "en"); track != nil {
		t.Errorf("expected no track for mismatched language, got %q", track.LanguageCode)
	}
}

func TestParseTimedText(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "p tags",
			xml:  `<timedtext><body><p t="0" d="1000">hello</p><p t="1000" d="1000">world</p></body></timedtext>`,
			want: "hello world",
		},
		{
			name: "text tags",
			xml:  `<transcript><text start="0" dur="1">hello</text><text start="1" dur="1">world</text></transcript>`,
			want: "hello world",
		},
		{
			name: "html entities",
			xml:  `<timedtext><p t="0" d="1">it&#39;s &amp; stuff</p></timedtext>`,
			want: "it's & stuff",
		},
		{
			name: "repeated fragments preserved",
			xml:  `<timedtext><p t="0" d="1">la</p><p t="1" d="1">la</p><p t="2" d="1">la</p></timedtext>`,
			want: "la la la",
		},
		{
			name: "empty fragments skipped",
			xml:  `<timedtext><p t="0" d="1">hello</p><p t="1" d="1">  </p><p t="2" d="1">world</p></timedtext>`,
			want: "hello world",
		},
		{
			name: "no captions",
			xml:  `<timedtext><body></body></timedtext>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTimedText(tt.xml)
			if got != tt.want {
				t.Errorf("parseTimedText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchTranscriptInnertube(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player":
			var req innertubeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad innertube request: %v", err)
			}
			if req.VideoID != "abc123def45" {
				t.Errorf("videoId = %q, want abc123def45", req.VideoID)
			}

			var pr playerResponse
			pr.VideoDetails.VideoID = "abc123def45"
			pr.VideoDetails.Title = "Test Video"
			pr.PlayabilityStatus.Status = "OK"
			pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks = []captionTrack{
				{BaseURL: ts.URL + "/timedtext?lang=en", LanguageCode: "en"},
			}
			json.NewEncoder(w).Encode(pr)
		case "/timedtext":
			w.Write([]byte(`<timedtext><p t="0" d="1">hello</p><p t="1" d="1">from the test</p></timedtext>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	origURL := innertubeURL
	defer func() { innertubeURL = origURL }()
	innertubeURL = ts.URL + "/player"

	transcript, err := fetchTranscriptInnertube("abc123def45", "en")
	if err != nil {
		t.Fatalf("fetchTranscriptInnertube() error = %v", err)
	}
	if transcript != "hello from the test" {
		t.Errorf("transcript = %q, want %q", transcript, "hello from the test")
	}
}

func TestFetchTranscriptInnertubeWrongLanguage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pr playerResponse
		pr.PlayabilityStatus.Status = "OK"
		pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks = []captionTrack{
			{BaseURL: "http://unused", LanguageCode: "es"},
		}
		json.NewEncoder(w).Encode(pr)
	}))
	defer ts.Close()

	origURL := innertubeURL
	defer func() { innertubeURL = origURL }()
	innertubeURL = ts.URL

	_, err := fetchTranscriptInnertube("abc123def45", "en")
	if err == nil {
		t.Fatal("expected error when requested language is unavailable")
	}
	if !strings.Contains(err.Error(), `"en"`) {
		t.Errorf("error = %q, want it to name the missing language", err.Error())
	}
}

func TestFetchTranscriptInnertubeNoCaptions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pr playerResponse
		pr.PlayabilityStatus.Status = "OK"
		json.NewEncoder(w).Encode(pr)
	}))
	defer ts.Close()

	origURL := innertubeURL
	defer func() { innertubeURL = origURL }()
	innertubeURL = ts.URL

	_, err := fetchTranscriptInnertube("abc123def45", "en")
	if err == nil {
		t.Fatal("expected error for video without captions")
	}
	if !strings.Contains(err.Error(), "no subtitles") {
		t.Errorf("error = %q, want no-subtitles message", err.Error())
	}
}
