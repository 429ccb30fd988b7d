package livequiz

import (
	"testing"
	"time"
)

func TestLeaderboardStableTieBreak(t *testing.T) {
	players := []Player{
		{ID: "p1", Name: "Ana", Score: 3},
		{ID: "p2", Name: "Bruno", Score: 5},
		{ID: "p3", Name: "Carla", Score: 5},
		{ID: "p4", Name: "Dario", Score: 1},
	}

	got := Leaderboard(players)

	wantOrder := []string{"p2", "p3", "p1", "p4"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].PlayerID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].PlayerID, id)
		}
	}

	// Tied players share a rank.
	if got[0].Rank != 1 || got[1].Rank != 1 {
		t.Errorf("tied ranks = %d, %d, want 1, 1", got[0].Rank, got[1].Rank)
	}
	if got[2].Rank != 3 {
		t.Errorf("third rank = %d, want 3", got[2].Rank)
	}
}

func TestLeaderboardDoesNotModifyInput(t *testing.T) {
	players := []Player{
		{ID: "p1", Score: 1},
		{ID: "p2", Score: 9},
	}
	Leaderboard(players)
	if players[0].ID != "p1" || players[1].ID != "p2" {
		t.Error("input slice reordered")
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	if got := Leaderboard(nil); len(got) != 0 {
		t.Errorf("got %d entries for no players", len(got))
	}
}

func TestAnswered(t *testing.T) {
	p := Player{Answers: []Answer{{QuestionIndex: 0, AnswerIndex: 2, Correct: true}}}
	if !p.Answered(0) {
		t.Error("expected answered for question 0")
	}
	if p.Answered(1) {
		t.Error("expected not answered for question 1")
	}
}

func TestRedactActiveGame(t *testing.T) {
	g := Game{
		ID:     "g1",
		Status: StatusActive,
		Questions: []Question{
			{Prompt: "q0", Options: []string{"a", "b"}, AnswerIndex: 0},
			{Prompt: "q1", Options: []string{"a", "b"}, AnswerIndex: 1},
			{Prompt: "q2", Options: []string{"a", "b"}, AnswerIndex: 0},
		},
		CurrentQuestionIndex: 1,
		CreatedAt:            time.Now(),
	}

	v := g.Redact()

	if v.Questions[0].AnswerIndex == nil || *v.Questions[0].AnswerIndex != 0 {
		t.Error("past question should reveal its answer")
	}
	if v.Questions[1].AnswerIndex != nil {
		t.Error("current question must not reveal its answer")
	}
	if v.Questions[2].AnswerIndex != nil {
		t.Error("upcoming question must not reveal its answer")
	}
}

func TestRedactLobbyHidesEverything(t *testing.T) {
	g := Game{
		Status:    StatusLobby,
		Questions: DefaultDeck(),
	}
	for i, q := range g.Redact().Questions {
		if q.AnswerIndex != nil {
			t.Errorf("question %d revealed in lobby", i)
		}
	}
}

func TestRedactFinishedRevealsEverything(t *testing.T) {
	deck := DefaultDeck()
	g := Game{
		Status:               StatusFinished,
		Questions:            deck,
		CurrentQuestionIndex: len(deck) - 1,
	}
	for i, q := range g.Redact().Questions {
		if q.AnswerIndex == nil {
			t.Errorf("question %d hidden after finish", i)
		}
	}
}

func TestSummary(t *testing.T) {
	g := Game{
		ID:        "g1",
		Name:      "Friday quiz",
		Status:    StatusLobby,
		Questions: DefaultDeck(),
	}
	s := g.Summary()
	if s.QuestionCount != 4 {
		t.Errorf("question count = %d, want 4", s.QuestionCount)
	}
	if s.Name != "Friday quiz" || s.Status != StatusLobby {
		t.Errorf("unexpected summary: %+v", s)
	}
}
