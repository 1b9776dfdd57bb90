// Package carddbtest provides a small card database and decklist shared
// by tests across packages.
package carddbtest

import (
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Cards returns the fixture cards. Mountain is deliberately absent so
// basic lands are exercised by name.
func Cards() []*carddb.Card {
	red := []string{"R"}
	return []*carddb.Card{
		{Name: "Monastery Swiftspear", ManaValue: 1, TypeLine: "Creature - Human Monk", OracleText: "Haste\nProwess", Colors: red, Rarity: deck.RarityUncommon},
		{Name: "Heartfire Hero", ManaValue: 1, TypeLine: "Creature - Mouse Soldier", OracleText: "Valiant", Colors: red, Rarity: deck.RarityUncommon},
		{Name: "Emberheart Challenger", ManaValue: 2, TypeLine: "Creature - Mouse Warrior", OracleText: "Haste, prowess", Colors: red, Rarity: deck.RarityRare},
		{Name: "Kumano Faces Kakkazan", ManaValue: 1, TypeLine: "Enchantment - Saga", OracleText: "Kumano Faces Kakkazan deals 1 damage to each opponent.", Colors: red, Rarity: deck.RarityUncommon},
		{Name: "Play with Fire", ManaValue: 1, TypeLine: "Instant", OracleText: "Play with Fire deals 2 damage to any target. If a player is dealt damage this way, scry 1 instead.", Colors: red, Rarity: deck.RarityUncommon},
		{Name: "Lightning Strike", ManaValue: 2, TypeLine: "Instant", OracleText: "Lightning Strike deals 3 damage to any target.", Colors: red, Rarity: deck.RarityCommon},
		{Name: "Bloodthirsty Adversary", ManaValue: 2, TypeLine: "Creature - Vampire", OracleText: "Haste", Colors: red, Rarity: deck.RarityMythic},
		{Name: "Squee, Dubious Monarch", ManaValue: 3, TypeLine: "Legendary Creature - Goblin Noble", OracleText: "Haste\nWhenever Squee attacks, create a 1/1 red Goblin creature token.", Colors: red, Rarity: deck.RarityRare},
		{Name: "Glorybringer", ManaValue: 5, TypeLine: "Creature - Dragon", OracleText: "Flying, haste", Colors: red, Rarity: deck.RarityRare},
		{Name: "Hired Claw", ManaValue: 1, TypeLine: "Creature - Lizard Mercenary", OracleText: "Haste", Colors: red, Rarity: deck.RarityRare},
		{Name: "Rockface Village", TypeLine: "Land", OracleText: "{T}: Add {C}.", Rarity: deck.RarityUncommon},
	}
}

// Snapshot returns the fixture cards as a snapshot.
func Snapshot() *carddb.Snapshot {
	return carddb.NewSnapshot(Cards(), "fixture")
}

// RedAggro returns a 60-card aggro list over the fixture cards. Against
// the built-in profiles it has one warning (Land Count, 24) and one
// critical (Early Game Density, 30). "Mysterious Card" is not in the
// fixture database.
func RedAggro() *deck.Deck {
	return &deck.Deck{
		Name:      "Fixture Red Aggro",
		Format:    "standard",
		Archetype: "aggro",
		Cards: deck.Multiset{
			"Monastery Swiftspear":   4,
			"Heartfire Hero":         4,
			"Emberheart Challenger":  4,
			"Kumano Faces Kakkazan":  4,
			"Play with Fire":         4,
			"Lightning Strike":       4,
			"Bloodthirsty Adversary": 2,
			"Squee, Dubious Monarch": 2,
			"Glorybringer":           2,
			"Hired Claw":             4,
			"Mysterious Card":        2,
			"Mountain":               20,
			"Rockface Village":       4,
		},
	}
}
