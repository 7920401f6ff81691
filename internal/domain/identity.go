package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Delimiter joins the segments of a composite UUID.
const Delimiter = "-"

// NewLocalID returns a fresh opaque identifier. ULIDs never contain the delimiter,
// so composite UUIDs stay splittable on their first delimiter.
func NewLocalID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// OwnedUUID composes an owner-scoped UUID: <owner>-<local>.
func OwnedUUID(owner, local string) string {
	return owner + Delimiter + local
}

// SolutionUUID composes the deterministic solution key <solver>-<quizUUID>.
func SolutionUUID(solver, quizUUID string) string {
	return solver + Delimiter + quizUUID
}

// OwnerOf returns the leading segment of a composite UUID.
func OwnerOf(uuid string) string {
	owner, _, _ := strings.Cut(uuid, Delimiter)
	return owner
}

// SplitOwned splits an owner-scoped UUID into owner and local parts.
func SplitOwned(uuid string) (owner, local string, ok bool) {
	owner, local, ok = strings.Cut(uuid, Delimiter)
	if !ok || owner == "" || local == "" {
		return "", "", false
	}
	return owner, local, true
}

// SplitSolution splits a solution UUID into solver and quiz UUID.
func SplitSolution(uuid string) (solver, quizUUID string, ok bool) {
	solver, quizUUID, ok = strings.Cut(uuid, Delimiter)
	if !ok || solver == "" {
		return "", "", false
	}
	if _, _, valid := SplitOwned(quizUUID); !valid {
		return "", "", false
	}
	return solver, quizUUID, true
}
