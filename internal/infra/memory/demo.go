package memory

import "quiz-arena/internal/domain"

// DemoQuestions is the seed catalog used when no database is configured and
// by the seed CLI command.
func DemoQuestions() []domain.Question {
	return []domain.Question{
		{
			Stem:          "Which planet is known as the Red Planet?",
			Options:       []string{"Earth", "Mars", "Jupiter", "Venus"},
			CorrectAnswer: "Mars",
			Explanation:   "Iron oxide dust gives Mars its reddish color.",
			Category:      "Science",
			TimeLimitSec:  15,
			BasePoints:    1000,
		},
		{
			Stem:          "What is the capital of Australia?",
			Options:       []string{"Sydney", "Melbourne", "Canberra", "Perth"},
			CorrectAnswer: "Canberra",
			Explanation:   "Canberra was purpose-built as the capital in 1913.",
			Category:      "Geography",
			TimeLimitSec:  15,
			BasePoints:    1000,
		},
		{
			Stem:          "Which keyword starts a goroutine in Go?",
			Options:       []string{"go", "async", "spawn", "thread"},
			CorrectAnswer: "go",
			Explanation:   "The go statement runs a function concurrently.",
			Category:      "Programming",
			TimeLimitSec:  10,
			BasePoints:    800,
		},
		{
			Stem:          "How many strings does a standard violin have?",
			Options:       []string{"4", "5", "6", "7"},
			CorrectAnswer: "4",
			Explanation:   "G, D, A and E.",
			Category:      "Music",
			TimeLimitSec:  10,
			BasePoints:    600,
		},
		{
			Stem:          "What is 2 + 2?",
			Options:       []string{"3", "4", "5", "22"},
			CorrectAnswer: "4",
			Explanation:   "Basic arithmetic.",
			Category:      "Math",
			TimeLimitSec:  5,
			BasePoints:    500,
		},
		{
			Stem:          "Which ocean is the largest?",
			Options:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			CorrectAnswer: "Pacific",
			Explanation:   "The Pacific covers about a third of Earth's surface.",
			Category:      "Geography",
			TimeLimitSec:  15,
			BasePoints:    1000,
		},
		{
			Stem:          "Who painted the Mona Lisa?",
			Options:       []string{"Michelangelo", "Leonardo da Vinci", "Raphael", "Donatello"},
			CorrectAnswer: "Leonardo da Vinci",
			Explanation:   "Painted in the early 16th century.",
			Category:      "Art",
			TimeLimitSec:  15,
			BasePoints:    1000,
		},
		{
			Stem:          "What does HTTP stand for?",
			Options:       []string{"HyperText Transfer Protocol", "High Throughput Transport Protocol", "Hyperlink Text Transfer Process", "Host Transfer Text Protocol"},
			CorrectAnswer: "HyperText Transfer Protocol",
			Explanation:   "The application protocol of the web.",
			Category:      "Programming",
			TimeLimitSec:  10,
			BasePoints:    800,
		},
		{
			Stem:          "Which element has the chemical symbol O?",
			Options:       []string{"Gold", "Osmium", "Oxygen", "Oganesson"},
			CorrectAnswer: "Oxygen",
			Explanation:   "Atomic number 8.",
			Category:      "Science",
			TimeLimitSec:  10,
			BasePoints:    800,
		},
		{
			Stem:          "In which year did the first human land on the Moon?",
			Options:       []string{"1965", "1969", "1972", "1975"},
			CorrectAnswer: "1969",
			Explanation:   "Apollo 11 landed on July 20, 1969.",
			Category:      "History",
			TimeLimitSec:  15,
			BasePoints:    1000,
		},
	}
}
