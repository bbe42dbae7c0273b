package schema

// Source ids referenced outside the schema itself.
const (
	ScouterInitials  = "scouterInitials"
	MatchNumber      = "matchNumber"
	MatchType        = "matchType"
	RobotNumber      = "robotNumber"
	TeamNumber       = "teamNumber"
	StartingPosition = "startingPosition"
	TimeToScoreCoral = "timeToScoreCoral"
	Comments         = "comments"
)

var defaultFields = []Field{
	{Code: "si", Source: ScouterInitials, Kind: KindText, Required: true},
	{Code: "mn", Source: MatchNumber, Kind: KindNumber},
	{Code: "mt", Source: MatchType, Kind: KindSelect, Transform: "matchType", Options: []string{"qm", "qf", "f"}},
	{Code: "rb", Source: RobotNumber, Kind: KindSelect, Transform: "robot", Required: true,
		Options: []string{"Red 1", "Red 2", "Red 3", "Blue 1", "Blue 2", "Blue 3"}},
	{Code: "tn", Source: TeamNumber, Kind: KindText},
	{Code: "sp", Source: StartingPosition, Kind: KindPosition, Required: true},
	{Code: "ns", Source: "noShow", Kind: KindCheckbox},
	{Code: "cp", Source: "cagePosition", Kind: KindSelect, Transform: "cagePosition", Options: []string{"Shallow", "Deep"}},

	// auto
	{Code: "ma", Source: "movedAuto", Kind: KindCheckbox},
	{Code: "c1a", Source: "coralL1Auto", Kind: KindNumber},
	{Code: "c2a", Source: "coralL2Auto", Kind: KindNumber},
	{Code: "c3a", Source: "coralL3Auto", Kind: KindNumber},
	{Code: "c4a", Source: "coralL4Auto", Kind: KindNumber},
	{Code: "baa", Source: "bargeAlgaeAuto", Kind: KindNumber},
	{Code: "paa", Source: "processorAlgaeAuto", Kind: KindNumber},
	{Code: "daa", Source: "dislodgedAlgaeAuto", Kind: KindCheckbox},
	{Code: "af", Source: "autoFoul", Kind: KindNumber},

	// teleop
	{Code: "dat", Source: "dislodgedAlgaeTele", Kind: KindCheckbox},
	{Code: "pl", Source: "pickupLocation", Kind: KindSelect, Transform: "pickupLocation",
		Options: []string{"None", "Ground", "Human Player", "Both"}},
	{Code: "c1t", Source: "coralL1Tele", Kind: KindNumber},
	{Code: "c2t", Source: "coralL2Tele", Kind: KindNumber},
	{Code: "c3t", Source: "coralL3Tele", Kind: KindNumber},
	{Code: "c4t", Source: "coralL4Tele", Kind: KindNumber},
	{Code: "bat", Source: "bargeAlgaeTele", Kind: KindNumber},
	{Code: "pat", Source: "processorAlgaeTele", Kind: KindNumber},
	{Code: "tf", Source: "teleFouls", Kind: KindNumber},
	{Code: "cf", Source: "crossedField", Kind: KindCheckbox},
	{Code: "tfell", Source: "tippedFell", Kind: KindCheckbox},
	{Code: "toc", Source: "touchedOpposingCage", Kind: KindCheckbox},
	{Code: "ttc", Source: TimeToScoreCoral, Kind: KindText},

	// endgame
	{Code: "ep", Source: "endPosition", Kind: KindSelect, Transform: "endPosition",
		Options: []string{"Not Parked", "Parked", "Shallow Climb", "Deep Climb", "Failed Climb"}},
	{Code: "def", Source: "defended", Kind: KindCheckbox},

	// post match
	{Code: "ofs", Source: "offenseSkill", Kind: KindNumber},
	{Code: "dfs", Source: "defenseSkill", Kind: KindNumber},
	{Code: "cs", Source: "cardStatus", Kind: KindSelect, Transform: "cardStatus",
		Options: []string{"No Card", "Yellow Card", "Red Card"}},
	{Code: "cm", Source: Comments, Kind: KindText, Required: true},
}

var defaultRegistry = MustNew(defaultFields)

// Default returns the built-in match scouting schema.
func Default() *Registry { return defaultRegistry }
