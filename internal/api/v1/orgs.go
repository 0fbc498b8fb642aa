package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/orgd/internal/domain"
	"github.com/gosuda/orgd/internal/org"
)

// OrgBody is the wire representation of an organization record.
type OrgBody struct {
	OrganizationName string `json:"organization_name"`
	CollectionName   string `json:"collection_name"`
	AdminID          string `json:"admin_id"`
}

func orgBody(o *domain.Organization) OrgBody {
	return OrgBody{
		OrganizationName: o.Name,
		CollectionName:   o.CollectionName,
		AdminID:          o.AdminID.String(),
	}
}

type CreateOrgInput struct {
	Body struct {
		OrganizationName string `json:"organization_name" minLength:"1" maxLength:"255" doc:"Organization name (canonicalized to lowercase)"`
		Email            string `json:"email" minLength:"3" maxLength:"255" doc:"Admin email"`
		Password         string `json:"password" minLength:"8" maxLength:"128" doc:"Admin password"` //nolint:gosec // G117: credential DTO
	}
}

type CreateOrgOutput struct {
	Body OrgBody
}

type GetOrgInput struct {
	OrganizationName string `query:"organization_name" minLength:"1" doc:"Organization name"`
}

type GetOrgOutput struct {
	Body OrgBody
}

type UpdateOrgInput struct {
	Body struct {
		OrganizationName    string `json:"organization_name" minLength:"1" maxLength:"255" doc:"Organization to update"`
		NewOrganizationName string `json:"new_organization_name,omitempty" maxLength:"255" doc:"New organization name (rename)"`
		Email               string `json:"email,omitempty" maxLength:"255" doc:"New admin email"`
		Password            string `json:"password,omitempty" maxLength:"128" doc:"New admin password"` //nolint:gosec // G117: credential DTO
	}
}

type UpdateOrgOutput struct {
	Body OrgBody
}

type DeleteOrgInput struct {
	OrganizationName string `query:"organization_name" minLength:"1" doc:"Organization name"`
	Authorization    string `header:"Authorization" doc:"Bearer access token"`
}

type DeleteOrgOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

func RegisterOrgRoutes(api huma.API, orgs OrgService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-org",
		Method:        http.MethodPost,
		Path:          "/org/create",
		Summary:       "Create an organization with its admin and tenant collection",
		Tags:          []string{"Organizations"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateOrgInput) (*CreateOrgOutput, error) {
		o, err := orgs.Create(ctx, input.Body.OrganizationName, input.Body.Email, input.Body.Password)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				return nil, huma.Error422UnprocessableEntity("invalid input")
			case errors.Is(err, domain.ErrDuplicateName):
				return nil, huma.Error409Conflict("organization already exists")
			default:
				return nil, mapInfraError(err, "failed to create organization")
			}
		}

		return &CreateOrgOutput{Body: orgBody(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-org",
		Method:      http.MethodGet,
		Path:        "/org/get",
		Summary:     "Get an organization by name",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *GetOrgInput) (*GetOrgOutput, error) {
		o, err := orgs.Get(ctx, input.OrganizationName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, mapInfraError(err, "failed to look up organization")
		}

		return &GetOrgOutput{Body: orgBody(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-org",
		Method:      http.MethodPut,
		Path:        "/org/update",
		Summary:     "Update an organization (rename, admin email/password)",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *UpdateOrgInput) (*UpdateOrgOutput, error) {
		o, err := orgs.Update(ctx, input.Body.OrganizationName, org.UpdatePatch{
			NewName:  input.Body.NewOrganizationName,
			Email:    input.Body.Email,
			Password: input.Body.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("organization not found")
			case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrCollectionExists):
				return nil, huma.Error409Conflict("new organization name already taken")
			case errors.Is(err, domain.ErrInvalidInput):
				return nil, huma.Error422UnprocessableEntity("invalid input")
			default:
				return nil, mapInfraError(err, "failed to update organization")
			}
		}

		return &UpdateOrgOutput{Body: orgBody(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-org",
		Method:      http.MethodDelete,
		Path:        "/org/delete",
		Summary:     "Delete an organization, its admin and its tenant collection",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *DeleteOrgInput) (*DeleteOrgOutput, error) {
		token := bearerToken(input.Authorization)
		if token == "" {
			return nil, huma.Error401Unauthorized("missing bearer token")
		}

		err := orgs.Delete(ctx, input.OrganizationName, token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				return nil, huma.Error401Unauthorized("invalid or expired token")
			case errors.Is(err, domain.ErrForbidden):
				return nil, huma.Error403Forbidden("token is not scoped to this organization")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("organization not found")
			default:
				return nil, mapInfraError(err, "failed to delete organization")
			}
		}

		out := &DeleteOrgOutput{}
		out.Body.Status = "deleted"
		return out, nil
	})
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

// mapInfraError maps non-domain failures: partial failures carry their
// repair detail into the response, transient store faults become 503.
func mapInfraError(err error, msg string) error {
	var partial *domain.PartialFailureError
	if errors.As(err, &partial) {
		return huma.Error500InternalServerError(partial.Error())
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		return huma.Error503ServiceUnavailable("store unavailable, retry the operation")
	}

	return huma.Error500InternalServerError(msg, err)
}
