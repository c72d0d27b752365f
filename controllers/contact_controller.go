package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/strategiq/website-backend/repository"
	"github.com/strategiq/website-backend/utils"
)

// statsCacheKey prefixes the cached admin stats payload; write operations on
// any counted table invalidate it.
const statsCacheKey = "cache:stats"

// ContactController handles public contact form submissions and the
// admin-side listing and deletion of captured leads.
type ContactController struct {
	store repository.Store
}

// NewContactController creates a new ContactController instance.
func NewContactController(store repository.Store) *ContactController {
	return &ContactController{store: store}
}

// SubmitContact accepts a contact form submission from the public site.
func (c *ContactController) SubmitContact(ctx *gin.Context) {
	var req contactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	input, problems := validateContact(req)
	if len(problems) > 0 {
		utils.FailWithDetails(ctx, http.StatusBadRequest, "Validation failed", problems)
		return
	}

	// Free text ends up rendered in the admin dashboard; strip HTML.
	input.Message = utils.Sanitize(input.Message)

	contact, err := c.store.CreateContact(input)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("create contact failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to submit contact form")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey)
	utils.Success(ctx, gin.H{"contact": contact})
}

// ListContacts returns all captured leads for the admin dashboard.
func (c *ContactController) ListContacts(ctx *gin.Context) {
	contacts, err := c.store.GetContacts()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("list contacts failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}
	utils.Success(ctx, gin.H{"contacts": contacts})
}

// DeleteContact removes a lead by ID. Deleting an already-gone ID is a 404,
// never an error.
func (c *ContactController) DeleteContact(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	deleted, err := c.store.DeleteContact(id)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("delete contact %d failed: %v", id, err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	if !deleted {
		utils.Fail(ctx, http.StatusNotFound, "Contact not found")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey)
	utils.Success(ctx, gin.H{"message": "Contact deleted successfully"})
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
