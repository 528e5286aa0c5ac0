package httpdelivery

import (
	"time"

	evaluationapp "github.com/mutugading/marketplace-backend/internal/application/evaluation"
	favoriteapp "github.com/mutugading/marketplace-backend/internal/application/favorite"
	providerapp "github.com/mutugading/marketplace-backend/internal/application/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:        u.ID().String(),
		Username:  u.Username(),
		Name:      u.Name(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
	}
}

type loginView struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        userView `json:"user"`
	Roles       []string `json:"roles"`
}

type providerView struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	CPF               string     `json:"cpf"`
	RG                string     `json:"rg"`
	Address           string     `json:"address"`
	Phone             string     `json:"phone"`
	ServiceName       string     `json:"service_name"`
	Description       string     `json:"description,omitempty"`
	Categories        []string   `json:"categories"`
	DocumentPhotoURLs []string   `json:"document_photo_urls"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

func toProviderView(p *provider.Provider) providerView {
	return providerView{
		ID:                p.ID().String(),
		UserID:            p.UserID().String(),
		CPF:               p.CPF(),
		RG:                p.RG(),
		Address:           p.Address(),
		Phone:             p.Phone(),
		ServiceName:       p.ServiceName(),
		Description:       p.Description(),
		Categories:        p.Categories(),
		DocumentPhotoURLs: p.DocumentPhotoURLs(),
		IsActive:          p.IsActive(),
		IsVerified:        p.IsVerified(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

type pendingProvidersView struct {
	Providers  []providerView `json:"providers"`
	Pagination paginationView `json:"pagination"`
}

type paginationView struct {
	CurrentPage int32 `json:"current_page"`
	PageSize    int32 `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int32 `json:"total_pages"`
}

func toPendingProvidersView(res *providerapp.ListPendingResult) pendingProvidersView {
	providers := make([]providerView, 0, len(res.Providers))
	for _, p := range res.Providers {
		providers = append(providers, toProviderView(p))
	}
	return pendingProvidersView{
		Providers: providers,
		Pagination: paginationView{
			CurrentPage: res.CurrentPage,
			PageSize:    res.PageSize,
			TotalItems:  res.TotalItems,
			TotalPages:  res.TotalPages,
		},
	}
}

type scheduleView struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	DayOfWeek   int       `json:"day_of_week"`
	DayName     string    `json:"day_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

func toScheduleView(s *schedule.Schedule) scheduleView {
	return scheduleView{
		ID:          s.ID().String(),
		ProviderID:  s.ProviderID().String(),
		DayOfWeek:   int(s.DayOfWeek()),
		DayName:     s.DayOfWeek().String(),
		StartTime:   s.StartTime(),
		EndTime:     s.EndTime(),
		IsAvailable: s.IsAvailable(),
		CreatedAt:   s.CreatedAt(),
	}
}

func toScheduleViews(schedules []*schedule.Schedule) []scheduleView {
	views := make([]scheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, toScheduleView(s))
	}
	return views
}

type favoriteView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProviderID string    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFavoriteView(f *favorite.Favorite) favoriteView {
	return favoriteView{
		ID:         f.ID().String(),
		UserID:     f.UserID().String(),
		ProviderID: f.ProviderID().String(),
		CreatedAt:  f.CreatedAt(),
	}
}

type favoriteItemView struct {
	ProviderID  string `json:"provider_id"`
	DisplayName string `json:"display_name"`
	ServiceName string `json:"service_name"`
}

func toFavoriteItemViews(items []favoriteapp.Item) []favoriteItemView {
	views := make([]favoriteItemView, 0, len(items))
	for _, item := range items {
		views = append(views, favoriteItemView{
			ProviderID:  item.ProviderID.String(),
			DisplayName: item.DisplayName,
			ServiceName: item.ServiceName,
		})
	}
	return views
}

type evaluationView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProviderID string    `json:"provider_id"`
	Note       int       `json:"note"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEvaluationView(e *evaluation.Evaluation) evaluationView {
	return evaluationView{
		ID:         e.ID().String(),
		UserID:     e.UserID().String(),
		ProviderID: e.ProviderID().String(),
		Note:       e.Note(),
		Comment:    e.Comment(),
		CreatedAt:  e.CreatedAt(),
	}
}

type evaluationListView struct {
	Evaluations []evaluationView `json:"evaluations"`
	Average     float64          `json:"average"`
	Count       int              `json:"count"`
}

func toEvaluationListView(res *evaluationapp.ListResult) evaluationListView {
	views := make([]evaluationView, 0, len(res.Evaluations))
	for _, e := range res.Evaluations {
		views = append(views, toEvaluationView(e))
	}
	return evaluationListView{Evaluations: views, Average: res.Average, Count: res.Count}
}

type idView struct {
	ID string `json:"id"`
}

type documentView struct {
	URL string `json:"url"`
}
