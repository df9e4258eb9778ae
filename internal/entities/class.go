package entities

import "strings"

// Class represents a playable character class
type Class string

const (
	ClassDeathKnight Class = "Death Knight"
	ClassDemonHunter Class = "Demon Hunter"
	ClassDruid       Class = "Druid"
	ClassHunter      Class = "Hunter"
	ClassMage        Class = "Mage"
	ClassMonk        Class = "Monk"
	ClassPaladin     Class = "Paladin"
	ClassPriest      Class = "Priest"
	ClassRogue       Class = "Rogue"
	ClassShaman      Class = "Shaman"
	ClassWarlock     Class = "Warlock"
	ClassWarrior     Class = "Warrior"
)

// Classes lists every valid class in display order
var Classes = []Class{
	ClassDeathKnight,
	ClassDemonHunter,
	ClassDruid,
	ClassHunter,
	ClassMage,
	ClassMonk,
	ClassPaladin,
	ClassPriest,
	ClassRogue,
	ClassShaman,
	ClassWarlock,
	ClassWarrior,
}

// classColors holds the embed accent color for each class
var classColors = map[Class]int{
	ClassDeathKnight: 0xC41F3B,
	ClassDemonHunter: 0xA330C9,
	ClassDruid:       0xFF7D0A,
	ClassHunter:      0xABD473,
	ClassMage:        0x69CCF0,
	ClassMonk:        0x00FF96,
	ClassPaladin:     0xF58CBA,
	ClassPriest:      0xFFFFFF,
	ClassRogue:       0xFFF569,
	ClassShaman:      0x0070DE,
	ClassWarlock:     0x9482C9,
	ClassWarrior:     0xC79C6E,
}

// String returns the string representation of the class
func (c Class) String() string {
	return string(c)
}

// IsValid checks if the class is one of the known classes
func (c Class) IsValid() bool {
	_, ok := classColors[c]
	return ok
}

// Color returns the embed accent color for the class, or 0 if unknown
func (c Class) Color() int {
	return classColors[c]
}

// ParseClass matches an input string to a class, ignoring case
func ParseClass(input string) (Class, bool) {
	trimmed := strings.TrimSpace(input)
	for _, class := range Classes {
		if strings.EqualFold(trimmed, string(class)) {
			return class, true
		}
	}
	return "", false
}
