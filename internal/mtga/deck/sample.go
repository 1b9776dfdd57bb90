package deck

// SampleDeck returns the Mono-Red Aggro list that won Pro Tour Final
// Fantasy. It lets new installs explore the engine before the first
// meta sync.
func SampleDeck() *Deck {
	winRate := 0.90
	metaShare := 0.102
	return &Deck{
		Name:      "Mono-Red Aggro (Pro Tour Final Fantasy 1st)",
		Format:    "standard",
		Archetype: "aggro",
		Cards: Multiset{
			"Heartfire Hero":        4,
			"Manifold Mouse":        4,
			"Emberheart Challenger": 4,
			"Hired Claw":            4,
			"Magebane Lizard":       3,
			"Twinmaw Stormbrood":    4,
			"Tersa Lightshatter":    1,
			"Burst Lightning":       4,
			"Monstrous Rage":        4,
			"Lightning Strike":      1,
			"Self-Destruct":         1,
			"Screaming Nemesis":     3,
			"Mountain":              17,
			"Rockface Village":      4,
			"Soulstone Sanctuary":   2,
		},
		Sideboard: Multiset{
			"Soul-Guide Lantern":        2,
			"Suplex":                    2,
			"Torch the Tower":           3,
			"Lithomantic Barrage":       2,
			"Magebane Lizard":           1,
			"Case of the Crimson Pulse": 2,
			"Sunspine Lynx":             3,
		},
		WinRate:   &winRate,
		MetaShare: &metaShare,
		SourceURL: "https://www.mtggoldfish.com/deck/7186307",
	}
}
