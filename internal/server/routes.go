package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/orgd/internal/api/v1"
	"github.com/gosuda/orgd/internal/auth"
	"github.com/gosuda/orgd/internal/org"
)

func registerRoutes(api huma.API, orgSvc *org.Service, authSvc *auth.Service) {
	v1.RegisterOrgRoutes(api, orgSvc)
	v1.RegisterAuthRoutes(api, authSvc)
}
