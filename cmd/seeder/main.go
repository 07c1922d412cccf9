package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/database"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/rating"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "ledger.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	numTeams := flag.Int("teams", 4, "number of teams to create")
	numMatches := flag.Int("matches", 200, "number of matches to create")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()
	log.Info("Successfully connected to the database.")

	clubs := club.New(db)
	matches := match.New(db)

	// Each seeding run gets its own tags so runs can be repeated.
	run := uuid.NewString()[:4]
	teams := make([]*club.Team, 0, *numTeams)
	for i := 0; i < *numTeams; i++ {
		roster := make([]string, 5)
		for j := range roster {
			roster[j] = "seed_" + uuid.NewString()[:8]
		}
		team, err := clubs.CreateTeam(fmt.Sprintf("Seeded Team %s-%d", run, i+1), fmt.Sprintf("S%s%d", run, i+1), roster)
		if err != nil {
			log.Fatalf("Failed to create team: %s", err)
		}
		teams = append(teams, team)
	}
	log.Info("Created teams", "count", len(teams))
	if len(teams) < 2 {
		log.Fatal("At least two teams are needed to seed matches")
	}

	tournamentID, err := clubs.CreateTournament(&club.Tournament{
		Name:   "Seeded Cup " + run,
		Season: "SEASON 1",
		Year:   time.Now().Year(),
		Prize: club.PrizeFund{
			Currency: "USD",
			Total:    "1000",
			Distribution: club.Distribution{
				{Place: "1st", Amount: "600"},
				{Place: "2nd", Amount: "300"},
				{Place: "3rd", Amount: "100"},
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to create tournament: %s", err)
	}
	for i, place := range []string{"1st", "2nd", "3rd"} {
		if i >= len(teams) {
			break
		}
		if err := clubs.SetWinner(tournamentID, place, teams[i].ID); err != nil {
			log.Fatalf("Failed to set winner: %s", err)
		}
	}

	log.Info("Preparing to insert dummy matches...", "total", *numMatches)
	startTime := time.Now()

	for i := 0; i < *numMatches; i++ {
		perm := rand.Perm(len(teams))
		t1, t2 := teams[perm[0]], teams[perm[1]]
		s1, s2 := 13, rand.Intn(12)
		if rand.Intn(2) == 0 {
			s1, s2 = s2, s1
		}
		rounds := s1 + s2

		rec := &match.Record{
			TournamentID: tournamentID,
			Date:         time.Now().AddDate(0, 0, -rand.Intn(365)).Format("2006.01.02"),
			Format:       "5x5",
			Map:          match.Maps[rand.Intn(len(match.Maps))],
			Team1Tag:     t1.Tag,
			Team2Tag:     t2.Tag,
			Score1:       s1,
			Score2:       s2,
			TotalRounds:  rounds,
			Stats: map[string][]rating.PlayerLine{
				t1.Tag: seededLines(t1.Roster, rounds),
				t2.Tag: seededLines(t2.Roster, rounds),
			},
		}
		if _, err := matches.Append(rec); err != nil {
			log.Fatalf("Failed to insert match: %s", err)
		}
		if (i+1)%50 == 0 {
			log.Info("Inserted batch", "progress", fmt.Sprintf("%d/%d", i+1, *numMatches))
		}
	}

	duration := time.Since(startTime)
	log.Info("Seeding complete!", "total_matches", *numMatches, "duration", duration)
}

func seededLines(roster []string, rounds int) []rating.PlayerLine {
	lines := make([]rating.PlayerLine, 0, len(roster))
	for _, nick := range roster {
		counts := rating.Counts{
			Kills:   rand.Intn(rounds + 5),
			Assists: rand.Intn(8),
			Deaths:  rand.Intn(rounds + 1),
		}
		lines = append(lines, rating.PlayerLine{Nickname: nick, MetricVector: rating.Calculate(counts, rounds)})
	}
	return lines
}
