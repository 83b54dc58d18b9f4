package service

import (
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/pkg/apperror"
)

// MissingOptionIssue reports one cart line that cannot be submitted because
// its variant declares mandatory options none of which were selected.
type MissingOptionIssue struct {
	ProductID      string   `json:"productId"`
	VariantID      string   `json:"variantId"`
	ItemName       string   `json:"itemName"`
	MissingOptions []string `json:"missingOptions"`
}

// ValidateMandatoryOptions checks every cart line against its variant's
// mandatory options. A line passes when it carries at least one selected
// option whose id matches a mandatory option; lines whose variant is not in
// the map are passed through (the catalog may lag behind the upstream, and
// the upstream revalidates on submission anyway).
func ValidateMandatoryOptions(cart *entity.Cart, variants map[string]entity.Variant) []MissingOptionIssue {
	var issues []MissingOptionIssue

	for _, item := range cart.Items {
		variant, ok := variants[item.ID]
		if !ok {
			continue
		}

		mandatory := variant.MandatoryOptions()
		if len(mandatory) == 0 {
			continue
		}

		selected := make(map[string]bool, len(item.Options))
		for _, opt := range item.Options {
			selected[opt.ID] = true
		}

		var missing []string
		for _, opt := range mandatory {
			if !selected[opt.ID.String()] {
				missing = append(missing, opt.Name)
			}
		}

		if len(missing) > 0 {
			issues = append(issues, MissingOptionIssue{
				ProductID:      item.ProductID,
				VariantID:      item.ID,
				ItemName:       item.Name,
				MissingOptions: missing,
			})
		}
	}

	return issues
}

// issuesToFieldErrors converts validation issues into the error shape the
// presentation layer renders.
func issuesToFieldErrors(issues []MissingOptionIssue) []apperror.FieldError {
	fieldErrors := make([]apperror.FieldError, 0, len(issues))
	for _, issue := range issues {
		msg := issue.ItemName + " requires a choice of: "
		for i, name := range issue.MissingOptions {
			if i > 0 {
				msg += ", "
			}
			msg += name
		}
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   issue.ProductID,
			Message: msg,
		})
	}
	return fieldErrors
}
