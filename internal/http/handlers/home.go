package handlers

import (
	"net/http"
	"strconv"
	"time"

	"smpeduli/internal/catalog"
	"smpeduli/internal/domain"
)

// ramadhanStart anchors the landing-page countdown. WIB, start of day.
var ramadhanStart = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.FixedZone("WIB", 7*60*60))

type countdown struct {
	Days    int
	Hours   int
	Minutes int
}

// ramadhanCountdown returns nil once the date has passed; the banner
// disappears instead of counting negative time.
func ramadhanCountdown(now time.Time) *countdown {
	left := ramadhanStart.Sub(now)
	if left <= 0 {
		return nil
	}
	return &countdown{
		Days:    int(left.Hours()) / 24,
		Hours:   int(left.Hours()) % 24,
		Minutes: int(left.Minutes()) % 60,
	}
}

type homeView struct {
	Title         string
	Countdown     *countdown
	Campaigns     []domain.Campaign
	Categories    []domain.Category
	SubCategories []domain.SubCategory
	CategoryID    string
	SubCategoryID string
	Page          int
	PrevPage      int
	NextPage      int
	HasPrev       bool
	HasNext       bool
	LoadError     bool
}

// Home renders the landing page: countdown banner, category filters and one
// page of the campaign grid.
func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	view := homeView{
		Title:         "Beranda",
		Countdown:     ramadhanCountdown(time.Now()),
		CategoryID:    q.Get("category_id"),
		SubCategoryID: q.Get("sub_category_id"),
		Page:          page,
		PrevPage:      page - 1,
		NextPage:      page + 1,
		HasPrev:       page > 1,
	}

	categories, err := a.Catalog.Categories(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: load categories")
	}
	view.Categories = categories

	if view.CategoryID != "" {
		subs, err := a.Catalog.SubCategories(ctx, view.CategoryID)
		if err != nil {
			a.Logger.Error().Err(err).Str("category_id", view.CategoryID).Msg("handlers: load sub-categories")
		}
		view.SubCategories = subs
	}

	// A sub-category carried over from a previous category selection is
	// cleared rather than sent upstream.
	if view.SubCategoryID != "" && !containsSubCategory(view.SubCategories, view.SubCategoryID) {
		view.SubCategoryID = ""
	}

	campaigns, err := a.Catalog.Campaigns(ctx, page, catalog.DefaultPageSize, catalog.Filter{
		CategoryID:    view.CategoryID,
		SubCategoryID: view.SubCategoryID,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: load campaigns")
		view.LoadError = true
	}
	view.Campaigns = campaigns
	view.HasNext = len(campaigns) == catalog.DefaultPageSize

	a.render(w, http.StatusOK, "home", view)
}

func containsSubCategory(subs []domain.SubCategory, id string) bool {
	for i := range subs {
		if subs[i].ID == id {
			return true
		}
	}
	return false
}
