package recommend

import "context"

const recommendLimit = 20

// Service layers the cold-start fallback over collaborative filtering.
type Service struct {
	Repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{Repo: repo}
}

// ForUser returns personalized recommendations, falling back to the
// IMDb top list when the user's rating history yields nothing.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Item, bool, error) {
	items, err := s.Repo.ForUser(ctx, userID, recommendLimit)
	if err != nil {
		return nil, false, err
	}
	if len(items) > 0 {
		return items, true, nil
	}

	fallback, err := s.Repo.TopByIMDB(ctx, recommendLimit)
	if err != nil {
		return nil, false, err
	}
	return fallback, false, nil
}
