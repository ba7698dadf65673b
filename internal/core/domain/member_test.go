package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

func TestMember_AgeAt(t *testing.T) {
	dob := time.Date(1984, time.June, 15, 0, 0, 0, 0, time.UTC)
	member := domain.Member{DateOfBirth: &dob}

	// Day before the birthday the age has not incremented yet.
	assert.Equal(t, 39, member.AgeAt(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 40, member.AgeAt(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 40, member.AgeAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMember_AgeAtUnknownDateOfBirth(t *testing.T) {
	member := domain.Member{}
	assert.Equal(t, -1, member.AgeAt(time.Now()))
}
