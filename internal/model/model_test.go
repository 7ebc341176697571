package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPIN(t *testing.T) {
	assert.True(t, ValidPIN("1234"))
	assert.True(t, ValidPIN("0000"))

	assert.False(t, ValidPIN(""))
	assert.False(t, ValidPIN("123"))
	assert.False(t, ValidPIN("12345"))
	assert.False(t, ValidPIN("12a4"))
	assert.False(t, ValidPIN("12 4"))
}

func TestHashAndCheckPIN(t *testing.T) {
	hash, err := HashPIN("4821")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "4821", hash)

	p := Player{PINHash: hash}
	assert.True(t, p.CheckPIN("4821"))
	assert.False(t, p.CheckPIN("0000"))

	unclaimed := Player{}
	assert.False(t, unclaimed.CheckPIN("4821"))
}

func TestHashPINRejectsMalformed(t *testing.T) {
	_, err := HashPIN("12")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestPlayerClaimed(t *testing.T) {
	assert.False(t, (&Player{}).Claimed())
	assert.True(t, (&Player{PINHash: "hash"}).Claimed())
	assert.True(t, (&Player{ExternalID: "ext-1"}).Claimed())
}

func TestPlayerMatchesEmail(t *testing.T) {
	p := &Player{Email: "Phil@Example.com"}
	assert.True(t, p.MatchesEmail("phil@example.com"))
	assert.True(t, p.MatchesEmail("PHIL@EXAMPLE.COM"))
	assert.False(t, p.MatchesEmail("other@example.com"))

	// An empty stored email never matches, not even an empty probe
	empty := &Player{}
	assert.False(t, empty.MatchesEmail(""))
}

func TestValidTransition(t *testing.T) {
	assert.True(t, ValidTransition(StatusPending, StatusApproved))
	assert.True(t, ValidTransition(StatusPending, StatusDenied))

	assert.False(t, ValidTransition(StatusApproved, StatusDenied))
	assert.False(t, ValidTransition(StatusDenied, StatusApproved))
	assert.False(t, ValidTransition(StatusApproved, StatusPending))
	assert.False(t, ValidTransition(StatusPending, StatusPending))
}

func TestRequestTerminal(t *testing.T) {
	assert.False(t, (&WinningsRequest{Status: StatusPending}).Terminal())
	assert.True(t, (&WinningsRequest{Status: StatusApproved}).Terminal())
	assert.True(t, (&WinningsRequest{Status: StatusDenied}).Terminal())
}
