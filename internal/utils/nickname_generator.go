package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Careful", "Curious", "Sharp", "Steady", "Patient",
	"Keen", "Honest", "Quiet", "Alert", "Sober",
	"Candid", "Precise", "Frank", "Lucid", "Astute",
}

var nouns = []string{
	"Owl", "Heron", "Lynx", "Badger", "Kestrel",
	"Otter", "Fox", "Raven", "Hound", "Marten",
	"Osprey", "Crane", "Stoat", "Wren", "Falcon",
}

// GenerateCheckerName creates a display name in the format
// "Adjective Noun NNNN" for reviewers who register without one.
func GenerateCheckerName() (string, error) {
	adj, err := pick(len(adjectives))
	if err != nil {
		return "", fmt.Errorf("failed to pick adjective: %w", err)
	}
	noun, err := pick(len(nouns))
	if err != nil {
		return "", fmt.Errorf("failed to pick noun: %w", err)
	}
	suffix, err := pick(10000)
	if err != nil {
		return "", fmt.Errorf("failed to pick suffix: %w", err)
	}

	return fmt.Sprintf("%s %s %04d", adjectives[adj], nouns[noun], suffix), nil
}

func pick(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
