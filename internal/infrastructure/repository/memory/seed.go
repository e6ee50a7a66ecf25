package memory

import "github.com/slfantasy/fantasy-manager/internal/domain/player"

// SeedTeamID is the feed team id used by the development player pool.
const SeedTeamID = "1143"

// SeedPlayers returns a small development pool used when the service runs
// against the in-memory store.
func SeedPlayers() []player.Player {
	return []player.Player{
		{UID: "isl-pl-100", TeamID: SeedTeamID, FullName: "Gurpreet Singh Sandhu", TeamName: "Bengaluru FC", Position: "GK", Jersey: "1", Salary: 9},
		{UID: "isl-pl-101", TeamID: SeedTeamID, FullName: "Rahul Bheke", TeamName: "Bengaluru FC", Position: "DEF", Jersey: "2", Salary: 8},
		{UID: "isl-pl-102", TeamID: SeedTeamID, FullName: "Suresh Singh Wangjam", TeamName: "Bengaluru FC", Position: "MID", Jersey: "8", Salary: 8.5},
		{UID: "isl-pl-103", TeamID: SeedTeamID, FullName: "Sunil Chhetri", TeamName: "Bengaluru FC", Position: "FWD", Jersey: "11", Salary: 10.5},
		{UID: "isl-pl-200", TeamID: "1150", FullName: "Lallianzuala Chhangte", TeamName: "Mumbai City FC", Position: "MID", Jersey: "7", Salary: 10},
		{UID: "isl-pl-201", TeamID: "1150", FullName: "Mehtab Singh", TeamName: "Mumbai City FC", Position: "DEF", Jersey: "5", Salary: 8},
	}
}
