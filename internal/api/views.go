package api

import "budgeter/internal/models"

// Wire representations of the domain entities.

type userView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type householdView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type memberView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsOwner     bool   `json:"is_owner"`
}

type accountView struct {
	ID          string  `json:"id"`
	HouseholdID string  `json:"household_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Balance     float64 `json:"balance"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

type categoryView struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type transactionView struct {
	ID            string  `json:"id"`
	BankAccountID string  `json:"bank_account_id"`
	CategoryID    string  `json:"category_id"`
	CreatorID     string  `json:"creator_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Amount        float64 `json:"amount"`
	TransactedAt  int64   `json:"transacted_at"`
	IsVoid        bool    `json:"is_void"`
	CreatedAt     int64   `json:"created_at"`
	UpdatedAt     int64   `json:"updated_at"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toHouseholdView(h *models.Household) householdView {
	return householdView{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		OwnerID:     h.OwnerID,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func toHouseholdViews(hs []*models.Household) []householdView {
	views := make([]householdView, 0, len(hs))
	for _, h := range hs {
		views = append(views, toHouseholdView(h))
	}
	return views
}

func toMemberViews(ms []*models.Member) []memberView {
	views := make([]memberView, 0, len(ms))
	for _, m := range ms {
		views = append(views, memberView{ID: m.ID, Email: m.Email, DisplayName: m.DisplayName, IsOwner: m.IsOwner})
	}
	return views
}

func toAccountView(a *models.BankAccount) accountView {
	return accountView{
		ID:          a.ID,
		HouseholdID: a.HouseholdID,
		Name:        a.Name,
		Description: a.Description,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAccountViews(as []*models.BankAccount) []accountView {
	views := make([]accountView, 0, len(as))
	for _, a := range as {
		views = append(views, toAccountView(a))
	}
	return views
}

func toCategoryView(c *models.Category) categoryView {
	return categoryView{
		ID:          c.ID,
		HouseholdID: c.HouseholdID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryViews(cs []*models.Category) []categoryView {
	views := make([]categoryView, 0, len(cs))
	for _, c := range cs {
		views = append(views, toCategoryView(c))
	}
	return views
}

func toTransactionView(t *models.Transaction) transactionView {
	return transactionView{
		ID:            t.ID,
		BankAccountID: t.BankAccountID,
		CategoryID:    t.CategoryID,
		CreatorID:     t.CreatorID,
		Title:         t.Title,
		Description:   t.Description,
		Amount:        t.Amount,
		TransactedAt:  t.TransactedAt,
		IsVoid:        t.IsVoid,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionViews(ts []*models.Transaction) []transactionView {
	views := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, toTransactionView(t))
	}
	return views
}
