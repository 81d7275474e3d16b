// Package content serves the static blog posts, eco recommendations and quiz
// questions bundled into the binary.
package content

import (
	"embed"
	"fmt"

	"ecolife-backend/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type Library struct {
	posts           []models.BlogPost
	recommendations []models.Recommendation
	quiz            []models.QuizQuestion
}

// Load parses the embedded YAML files.
func Load() (*Library, error) {
	lib := &Library{}
	if err := decode("data/blog.yaml", &lib.posts); err != nil {
		return nil, err
	}
	if err := decode("data/recommendations.yaml", &lib.recommendations); err != nil {
		return nil, err
	}
	if err := decode("data/quiz.yaml", &lib.quiz); err != nil {
		return nil, err
	}
	return lib, nil
}

// MustLoad is Load for callers that treat broken bundled content as a programming error.
func MustLoad() *Library {
	lib, err := Load()
	if err != nil {
		panic(err)
	}
	return lib
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (l *Library) Posts() []models.BlogPost {
	return append([]models.BlogPost{}, l.posts...)
}

// Post returns nil when no post has the id.
func (l *Library) Post(id string) *models.BlogPost {
	for i := range l.posts {
		if l.posts[i].ID == id {
			p := l.posts[i]
			return &p
		}
	}
	return nil
}

func (l *Library) Recommendations() []models.Recommendation {
	return append([]models.Recommendation{}, l.recommendations...)
}

func (l *Library) Recommendation(area string) *models.Recommendation {
	for i := range l.recommendations {
		if l.recommendations[i].ID == area {
			r := l.recommendations[i]
			return &r
		}
	}
	return nil
}

func (l *Library) Quiz() []models.QuizQuestion {
	return append([]models.QuizQuestion{}, l.quiz...)
}
