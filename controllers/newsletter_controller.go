package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strategiq/website-backend/repository"
	"github.com/strategiq/website-backend/utils"
)

// NewsletterController handles public newsletter signups and the admin
// subscriber listing.
type NewsletterController struct {
	store repository.Store
}

// NewNewsletterController creates a new NewsletterController instance.
func NewNewsletterController(store repository.Store) *NewsletterController {
	return &NewsletterController{store: store}
}

// Subscribe upserts a newsletter subscription. Subscribing an email that
// already exists reactivates it instead of erroring.
func (n *NewsletterController) Subscribe(ctx *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	email, problems := validateNewsletterEmail(req.Email)
	if len(problems) > 0 {
		utils.FailWithDetails(ctx, http.StatusBadRequest, "Invalid email address", problems)
		return
	}

	newsletter, err := n.store.SubscribeNewsletter(email)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("newsletter subscribe failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to subscribe to newsletter")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey)
	utils.Success(ctx, gin.H{"newsletter": newsletter})
}

// ListSubscribers returns active subscriptions for the admin dashboard.
func (n *NewsletterController) ListSubscribers(ctx *gin.Context) {
	subscribers, err := n.store.GetNewsletterSubscribers()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("list subscribers failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve subscribers")
		return
	}
	utils.Success(ctx, gin.H{"subscribers": subscribers})
}
