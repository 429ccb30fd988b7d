package livequiz

// DefaultDeck returns the built-in question set every new room is
// created with. The slice is freshly allocated so callers can embed it
// into a game without sharing state.
func DefaultDeck() []Question {
	return []Question{
		{
			Prompt:      "What is the capital of Japan?",
			Options:     []string{"Osaka", "Kyoto", "Tokyo", "Sapporo"},
			AnswerIndex: 2,
		},
		{
			Prompt:      "Which planet is known as the red planet?",
			Options:     []string{"Mercury", "Venus", "Mars", "Jupiter"},
			AnswerIndex: 2,
		},
		{
			Prompt:      "Which ocean is the largest by surface area?",
			Options:     []string{"Pacific", "Atlantic", "Indian", "Arctic"},
			AnswerIndex: 0,
		},
		{
			Prompt:      "How many sides does a hexagon have?",
			Options:     []string{"Five", "Six", "Seven", "Eight"},
			AnswerIndex: 1,
		},
	}
}
