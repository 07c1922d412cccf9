package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var (
	topN           int
	tournamentID   int64
	page           int
	date           string
	tournamentSort string
	postN          int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(postLeaderboardCmd)
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(matchGetCmd, matchDeleteCmd, matchEditCmd)

	topCmd.Flags().IntVarP(&topN, "n", "n", leaderboard.DefaultTop, "Number of players to show")
	matchesCmd.Flags().Int64Var(&tournamentID, "tournament", 0, "Tournament id")
	matchesCmd.Flags().IntVar(&page, "page", 0, "Page to show, starting at 0")
	matchesCmd.Flags().StringVar(&date, "date", "", "Only show matches played on this date")
	matchesCmd.MarkFlagRequired("tournament")
	tournamentsCmd.Flags().StringVar(&tournamentSort, "sort", string(club.SortYear), "Sort order: alpha or year")
	postLeaderboardCmd.Flags().IntVarP(&postN, "n", "n", leaderboard.DefaultTop, "Number of players to post")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show how often each command has been used",
	RunE: func(cmd *cobra.Command, args []string) error {
		var counters map[string]int
		if err := fetchJSON("/api/usage", &counters); err != nil {
			return err
		}
		table := newTable()
		table.Header("KEY", "COUNT")
		for key, count := range counters {
			table.Append(key, strconv.Itoa(count))
		}
		return table.Render()
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []leaderboard.Entry
		if err := fetchJSON("/api/top?n="+strconv.Itoa(topN), &entries); err != nil {
			return err
		}
		table := newTable()
		table.Header("#", "PLAYER", "K", "A", "D", "RATING", "MATCHES", "SCORE")
		for i, e := range entries {
			table.Append(
				strconv.Itoa(i+1),
				e.Nickname,
				strconv.Itoa(e.Kills),
				strconv.Itoa(e.Assists),
				strconv.Itoa(e.Deaths),
				fmt.Sprintf("%.2f", e.AvgRating()),
				strconv.Itoa(e.Matches),
				fmt.Sprintf("%.2f", e.Score),
			)
		}
		return table.Render()
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [nickname]",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p leaderboard.Profile
		if err := fetchJSON("/api/players/"+url.PathEscape(args[0]), &p); err != nil {
			return err
		}
		fmt.Printf("%s (%s %s)  |  Team: %s  |  Rank: %s\n\n", p.Nickname, p.FirstName, p.LastName, p.Team, p.RankLabel())

		table := newTable()
		table.Header("K", "A", "D", "+/-", "KD", "KPR", "DPR", "SVR", "IMPACT", "RATING", "MATCHES")
		table.Append(
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%+d", p.Diff),
			fmt.Sprintf("%.2f", p.Rates.KD),
			fmt.Sprintf("%.2f", p.Rates.KPR),
			fmt.Sprintf("%.2f", p.Rates.DPR),
			fmt.Sprintf("%.2f", p.Rates.SVR),
			fmt.Sprintf("%.2f", p.Rates.Impact),
			fmt.Sprintf("%.2f", p.AvgRating),
			strconv.Itoa(p.Matches),
		)
		if err := table.Render(); err != nil {
			return err
		}

		for _, line := range p.LastMatches {
			fmt.Println("  " + line)
		}
		for _, a := range p.Achievements {
			fmt.Printf("  %s: %s %s\n", a.Place, a.Tournament, a.Season)
		}
		for _, t := range p.Transfers {
			fmt.Printf("  %s: %s -> %s\n", t.Date, t.OldTeam, t.NewTeam)
		}
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List a tournament's matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("tournament", strconv.FormatInt(tournamentID, 10))
		q.Set("page", strconv.Itoa(page))
		if date != "" {
			q.Set("date", date)
		}
		var p match.Page
		if err := fetchJSON("/api/matches?"+q.Encode(), &p); err != nil {
			return err
		}
		table := newTable()
		table.Header("ID", "DATE", "FORMAT", "MAP", "TEAMS", "SCORE")
		for _, rec := range p.Records {
			table.Append(
				rec.DisplayID(),
				rec.Date,
				rec.Format,
				rec.Map,
				rec.Team1Tag+" vs "+rec.Team2Tag,
				fmt.Sprintf("%d:%d", rec.Score1, rec.Score2),
			)
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Printf("Page %d/%d, %d matches\n", p.Page+1, max(p.TotalPages, 1), p.TotalCount)
		return nil
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tournaments []club.Tournament
		if err := fetchJSON("/api/tournaments?sort="+url.QueryEscape(tournamentSort), &tournaments); err != nil {
			return err
		}
		table := newTable()
		table.Header("ID", "NAME", "SEASON", "YEAR", "PRIZE")
		for _, t := range tournaments {
			table.Append(strconv.FormatInt(t.ID, 10), t.Name, t.Season, strconv.Itoa(t.Year), t.Prize.Total+" "+t.Prize.Currency)
		}
		return table.Render()
	},
}

var postLeaderboardCmd = &cobra.Command{
	Use:   "post-leaderboard",
	Short: "Post the leaderboard to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/tasks/leaderboard?n="+strconv.Itoa(postN), nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Inspect or correct a single match",
}

var matchGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/matches/" + url.PathEscape(args[0]))
	},
}

var matchDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/api/matches/"+url.PathEscape(args[0]), nil)
	},
}

var matchEditCmd = &cobra.Command{
	Use:   "edit [id] [field] [value]",
	Short: "Change the date, map or score of a match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(map[string]string{"field": args[1], "value": args[2]})
		if err != nil {
			return err
		}
		return performRequest(http.MethodPatch, "/api/matches/"+url.PathEscape(args[0]), body)
	},
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performRequest(method, endpoint string, payload []byte) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
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

// fetchJSON decodes a successful JSON response into v.
func fetchJSON(endpoint string, v any) error {
	resp, err := http.Get(host + endpoint)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
