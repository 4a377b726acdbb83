// Package pseudonym generates the display names confessions are posted
// under: a randomized Hollywood-actor name with a prefix that makes it
// funny-but-clear it is a pseudonym.
package pseudonym

import (
	"fmt"
	"math/rand/v2"
)

var actors = []string{
	"Keanu Reeves",
	"Scarlett Johansson",
	"Tom Cruise",
	"Zendaya",
	"Ryan Gosling",
	"Emma Stone",
	"Dwayne Johnson",
	"Jennifer Lawrence",
	"Chris Hemsworth",
	"Margot Robbie",
	"Robert Downey Jr.",
	"Natalie Portman",
	"Leonardo DiCaprio",
	"Gal Gadot",
	"Michael B. Jordan",
	"Ana de Armas",
	"Timothée Chalamet",
	"Viola Davis",
	"Christian Bale",
	"Emily Blunt",
	"Pedro Pascal",
	"Florence Pugh",
	"Andrew Garfield",
	"Zoe Kravitz",
}

var prefixes = []string{
	"Anon",
	"Totally-Not",
	"Definitely-Not",
	"Secret",
	"Agent",
	"Undercover",
}

// Random returns a fresh pseudonym like "Anon Keanu Reeves".
func Random() string {
	prefix := prefixes[rand.IntN(len(prefixes))]
	actor := actors[rand.IntN(len(actors))]
	return fmt.Sprintf("%s %s", prefix, actor)
}
