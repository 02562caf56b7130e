package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// Load .env file if present (silently ignore if missing)
	godotenv.Load()
}

var (
	// Config flags
	llmAPIKey  string
	llmModel   string
	serverAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ytlens",
		Short: "Analyze YouTube videos from their transcripts",
		Long: `Fetches YouTube video transcripts and uses the Gemini API to produce a
structured analysis (summary, key points, topics) and answer follow-up
questions about the video.

Run "ytlens serve" to start the web interface.`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "Listen address (default: from PORT env, else :8080)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <youtube-url>",
		Short: "Fetch a transcript and print its analysis as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	transcriptCmd := &cobra.Command{
		Use:   "transcript <youtube-url>",
		Short: "Fetch and display the transcript only",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranscript,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&llmAPIKey, "api-key", "", "Gemini API key (default: from GOOGLE_API_KEY env)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "model", "", "Gemini model to use (default: from GEMINI_MODEL env, else "+defaultGeminiModel+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(transcriptCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	initLogger(slog.LevelInfo)

	closeLLM, err := initGemini(cmd.Context(), getConfig(llmAPIKey, "GOOGLE_API_KEY"), getConfig(llmModel, "GEMINI_MODEL"))
	if err != nil {
		return err
	}
	defer closeLLM()

	addr := serverAddr
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	return startServer(addr)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	initLogger(slog.LevelWarn)

	closeLLM, err := initGemini(cmd.Context(), getConfig(llmAPIKey, "GOOGLE_API_KEY"), getConfig(llmModel, "GEMINI_MODEL"))
	if err != nil {
		return err
	}
	defer closeLLM()

	transcript, err := fetchForURL(args[0])
	if err != nil {
		return err
	}

	analysis := analyzeTranscript(cmd.Context(), llm, transcript)

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

func runTranscript(cmd *cobra.Command, args []string) error {
	initLogger(slog.LevelWarn)

	transcript, err := fetchForURL(args[0])
	if err != nil {
		return err
	}

	fmt.Println(transcript)
	return nil
}

func fetchForURL(url string) (string, error) {
	videoID, ok := extractVideoID(url)
	if !ok {
		return "", fmt.Errorf("invalid YouTube URL: %s", url)
	}

	transcript, _, err := resolveTranscript(videoID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}

	return transcript, nil
}

// getConfig returns flag value if set, otherwise env var
func getConfig(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}
