package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	ladderFlag  string
	playerFlag  string
	forfeitFlag bool
	noteFlag    string
)

func init() {
	challengeCmd.Flags().StringVar(&ladderFlag, "ladder", "", "The ladder id or slug")
	challengeCmd.Flags().StringVar(&noteFlag, "note", "", "An optional note for the challengee")
	challengeCmd.MarkFlagRequired("ladder")

	standingsCmd.Flags().StringVar(&ladderFlag, "ladder", "", "The ladder id or slug")
	standingsCmd.MarkFlagRequired("ladder")

	joinCmd.Flags().StringVar(&ladderFlag, "ladder", "", "The ladder id")
	joinCmd.Flags().StringVar(&playerFlag, "player", "", "The player id")
	joinCmd.MarkFlagRequired("ladder")
	joinCmd.MarkFlagRequired("player")

	leaveCmd.Flags().StringVar(&ladderFlag, "ladder", "", "The ladder id")
	leaveCmd.Flags().StringVar(&playerFlag, "player", "", "The player id")
	leaveCmd.MarkFlagRequired("ladder")
	leaveCmd.MarkFlagRequired("player")

	resultCmd.Flags().BoolVar(&forfeitFlag, "forfeit", false, "Record the result as a forfeit")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(laddersCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var laddersCmd = &cobra.Command{
	Use:   "ladders",
	Short: "List all ladders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ladders")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current standings of a ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings?ladder=" + url.QueryEscape(ladderFlag))
	},
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a player onto a ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/join", map[string]any{
			"ladder_id": ladderFlag,
			"player_id": playerFlag,
		})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Remove a player from a ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/leave", map[string]any{
			"ladder_id": ladderFlag,
			"player_id": playerFlag,
		})
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge <challenger> <challengee>",
	Short: "Issue a challenge between two players",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/challenge", map[string]any{
			"ladder_id":     ladderFlag,
			"challenger_id": args[0],
			"challengee_id": args[1],
			"note":          noteFlag,
		})
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <challenge-id>",
	Short: "Accept a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/challenge/accept", map[string]any{
			"challenge_id": args[0],
		})
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <match-id> <winner>",
	Short: "Report a match result; winner is 'challenger', 'challengee' or a player id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/result", map[string]any{
			"match_id": args[0],
			"winner":   args[1],
			"forfeit":  forfeitFlag,
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Forfeit every challenge whose response deadline has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/sweep-timeouts")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint string, payload map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
