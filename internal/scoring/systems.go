package scoring

import "ootp-toolkit/internal/domain"

var DraftKings = domain.ScoringSystem{
	ID:   "draftkings",
	Name: "DraftKings DFS",
	Hitting: domain.FormulaTable{
		"1B": 3, "2B": 5, "3B": 8, "HR": 10,
		"R": 2, "RBI": 2, "BB": 2, "SB": 5, "CS": -2, "HBP": 2,
	},
	Pitching: domain.FormulaTable{
		"IP": 2.25, "K": 2, "W": 4, "ER": -2, "H": -0.6,
		"BB": -0.6, "HBP": -0.6, "CG": 2.5, "CGSO": 2.5, "NH": 5,
	},
}

var FanDuel = domain.ScoringSystem{
	ID:   "fanduel",
	Name: "FanDuel DFS",
	Hitting: domain.FormulaTable{
		"1B": 3, "2B": 6, "3B": 9, "HR": 12,
		"R": 3.2, "RBI": 3.5, "BB": 3, "SB": 6, "HBP": 3,
	},
	Pitching: domain.FormulaTable{
		"W": 6, "QS": 4, "ER": -3, "K": 3, "IP": 3,
	},
}

// Sabermetric leans on the derived rate stats rather than counting stats.
var Sabermetric = domain.ScoringSystem{
	ID:   "sabermetric",
	Name: "Sabermetric DFS",
	Hitting: domain.FormulaTable{
		"1B": 2, "2B": 4, "3B": 6, "HR": 8, "BB": 3,
		"SB": 3, "CS": -3, "K": -1, "ISO": 50, "WAR": 10,
	},
	Pitching: domain.FormulaTable{
		"IP": 2, "K/9": 2, "K/BB": 3, "FIP": -5, "W": 2, "WAR": 10,
	},
}

var SmallBall = domain.ScoringSystem{
	ID:   "smallball",
	Name: "Small Ball League",
	Hitting: domain.FormulaTable{
		"1B": 4, "2B": 5, "3B": 7, "HR": 5, "R": 3, "BB": 3,
		"SB": 6, "CS": -1, "SH": 3, "SF": 2, "HBP": 3,
	},
	Pitching: domain.FormulaTable{
		"IP": 3, "K": 1, "ER": -2, "BB": -1, "W": 3, "SV": 5, "HLD": 3,
	},
}

var RotoPoints = domain.ScoringSystem{
	ID:   "roto-points",
	Name: "Classic Roto Points",
	Hitting: domain.FormulaTable{
		"R": 1, "HR": 4, "RBI": 1, "SB": 2, "H": 1,
	},
	Pitching: domain.FormulaTable{
		"W": 5, "SV": 5, "K": 1, "ER": -1, "H": -0.5, "BB": -0.5,
	},
}

// Builtin returns the predefined systems in display order.
func Builtin() []domain.ScoringSystem {
	return []domain.ScoringSystem{DraftKings, FanDuel, Sabermetric, SmallBall, RotoPoints}
}
