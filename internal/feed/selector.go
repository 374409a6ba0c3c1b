package feed

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectorKind enumerates the three feed kinds.
type SelectorKind int

const (
	// SelectorForYou is the global feed: every post, no author filter.
	SelectorForYou SelectorKind = iota
	// SelectorSubscriptions restricts to authors the requester follows.
	SelectorSubscriptions
	// SelectorCustom restricts to the author list of a stored feed owned
	// by the requester.
	SelectorCustom
)

// Selector is the parsed feed selector. Only the custom kind carries data.
type Selector struct {
	Kind   SelectorKind
	FeedID primitive.ObjectID
}

// ErrInvalidSelector flags a selector that is neither a known tag nor a
// syntactically valid feed identifier.
var ErrInvalidSelector = errors.New("invalid feed selector")

// ParseSelector resolves the raw query value into a Selector.
func ParseSelector(raw string) (Selector, error) {
	switch raw {
	case "fyp":
		return Selector{Kind: SelectorForYou}, nil
	case "subscriptions":
		return Selector{Kind: SelectorSubscriptions}, nil
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return Selector{}, ErrInvalidSelector
	}
	return Selector{Kind: SelectorCustom, FeedID: id}, nil
}
