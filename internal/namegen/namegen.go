// Package namegen produces human-readable channel name suggestions of the
// form "Adjective Color Animal".
package namegen

import "math/rand/v2"

var adjectives = []string{
	"ancient", "bold", "brave", "bright", "calm", "clever", "cosmic",
	"curious", "daring", "dreamy", "eager", "electric", "fancy", "fierce",
	"gentle", "glowing", "golden", "graceful", "happy", "hidden", "humble",
	"jolly", "keen", "lively", "lucky", "mellow", "mighty", "misty",
	"noble", "polite", "proud", "quick", "quiet", "rapid", "restless",
	"shiny", "silent", "sleepy", "swift", "wild", "wise", "witty",
}

var colors = []string{
	"amber", "aqua", "azure", "beige", "black", "blue", "bronze",
	"coral", "crimson", "cyan", "emerald", "fuchsia", "gold", "green",
	"indigo", "ivory", "jade", "lavender", "lime", "magenta", "maroon",
	"olive", "orange", "pink", "purple", "red", "rose", "salmon",
	"scarlet", "silver", "teal", "turquoise", "violet", "white", "yellow",
}

var animals = []string{
	"badger", "bear", "beaver", "bison", "cheetah", "condor", "crane",
	"dolphin", "eagle", "falcon", "ferret", "fox", "gazelle", "gecko",
	"heron", "ibis", "jaguar", "koala", "lemur", "leopard", "lynx",
	"marmot", "meerkat", "moose", "narwhal", "ocelot", "orca", "otter",
	"owl", "panda", "panther", "puffin", "rabbit", "raven", "seal",
	"sparrow", "tiger", "toucan", "walrus", "weasel", "wolf", "wombat",
}

// Suggest returns a random capitalized three-word phrase, one word from
// each dictionary, separated by spaces.
func Suggest() string {
	return capitalize(pick(adjectives)) + " " + capitalize(pick(colors)) + " " + capitalize(pick(animals))
}

func pick(words []string) string {
	return words[rand.IntN(len(words))]
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	// Dictionaries are lowercase ASCII.
	return string(word[0]-'a'+'A') + word[1:]
}
