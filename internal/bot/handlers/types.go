package handlers

import (
	"github.com/daniilabradorr/diaflow/internal/domain"
	"github.com/daniilabradorr/diaflow/internal/session"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Session  *session.Manager
	Glucose  domain.GlucoseService
	Doses    domain.DoseService
	Meals    domain.MealService
	Supplies domain.SupplyService
	Alerts   domain.AlertService
	Kits     domain.KitService
	Reports  domain.ReportService
	Public   domain.PublicKitService
}
