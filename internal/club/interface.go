package club

// ClubStore defines the interface for interacting with teams, tournaments and players.
type ClubStore interface {
	CreateTeam(name, tag string, roster []string) (*Team, error)
	TeamByTag(tag string) (*Team, error)
	TeamByID(id int64) (*Team, error)
	Teams() ([]Team, error)
	CurrentTeam(nickname string) (*Team, error)
	AllRosterPlayers() ([]RosterPlayer, error)

	CreateTournament(t *Tournament) (int64, error)
	Tournament(id int64) (*Tournament, error)
	ListTournaments(sort TournamentSort) ([]Tournament, error)
	SetWinner(tournamentID int64, place string, teamID int64) error

	TransferPlayer(nickname string, fromTeamID, toTeamID int64, date string) (*Transfer, error)
	Transfers(nickname string) ([]Transfer, error)

	UpsertPlayerMetadata(meta PlayerMetadata) error
	PlayerMetadata(nickname string) (PlayerMetadata, error)
}
