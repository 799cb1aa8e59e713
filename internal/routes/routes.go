package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/app"
	"github.com/BruksfildServices01/clinica-otica/internal/crud"
	"github.com/BruksfildServices01/clinica-otica/internal/guard"
	"github.com/BruksfildServices01/clinica-otica/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinica-otica/internal/infra/repository"
	"github.com/BruksfildServices01/clinica-otica/internal/middleware"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	ucAppointment "github.com/BruksfildServices01/clinica-otica/internal/usecase/appointment"
	ucReport "github.com/BruksfildServices01/clinica-otica/internal/usecase/report"
	ucSchedule "github.com/BruksfildServices01/clinica-otica/internal/usecase/schedule"
	ucUser "github.com/BruksfildServices01/clinica-otica/internal/usecase/user"
)

var byName = []store.Order{{Column: "name"}, {Column: "id"}}

func RegisterRoutes(r *gin.Engine, a *app.App) {
	cfg := a.Config
	db := a.DB
	tz := cfg.DefaultTimezone

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(a.Log),
		middleware.Recovery(a.Log),
		middleware.Metrics(a.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	branchTable := infraRepo.NewGormTable[models.Branch](db)
	userTable := infraRepo.NewGormTable[models.User](db)
	fixedTable := infraRepo.NewGormTable[models.FixedExpense](db)
	diverseTable := infraRepo.NewGormTable[models.DiverseExpense](db)
	instrumentTable := infraRepo.NewGormTable[models.Instrument](db)
	orderTable := infraRepo.NewGormTable[models.ServiceOrderCost](db)
	revenueTable := infraRepo.NewGormTable[models.RevenueEntry](db)
	auditTable := infraRepo.NewGormTable[models.AuditLog](db)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, a.Availability, tz)
	bookUC := ucAppointment.NewBookAppointment(appointmentRepo, a.Availability, a.Audit, tz)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	updateStatusUC := ucAppointment.NewUpdateStatus(appointmentRepo, a.Availability, a.Audit)
	updateNotesUC := ucAppointment.NewUpdateNotes(appointmentRepo, a.Audit)

	getConfigUC := ucSchedule.NewGetConfig(scheduleRepo)
	saveConfigUC := ucSchedule.NewSaveConfig(scheduleRepo, a.Availability, a.Audit, tz)
	openDatesUC := ucSchedule.NewOpenDates(scheduleRepo, a.Availability, a.Audit, tz)
	listDatesUC := ucSchedule.NewListDates(scheduleRepo)
	manageDateUC := ucSchedule.NewManageDate(scheduleRepo, a.Availability, a.Audit)

	reportSvc := ucReport.NewService(ucReport.Tables{
		Branches:        branchTable,
		FixedExpenses:   fixedTable,
		DiverseExpenses: diverseTable,
		Revenues:        revenueTable,
		ServiceOrders:   orderTable,
		Instruments:     instrumentTable,
	})
	exporter := ucReport.NewExporter(reportSvc, a.Archive, a.Log.Named("report"))

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(a.Sessions)
	meHandler := handlers.NewMeHandler()
	usersHandler := handlers.NewUsersHandler(ucUser.NewManage(userTable, a.Audit))
	scheduleHandler := handlers.NewScheduleHandler(getConfigUC, saveConfigUC, openDatesUC, listDatesUC, manageDateUC)
	appointmentHandler := handlers.NewAppointmentHandler(listAppointmentsUC, updateStatusUC, updateNotesUC)
	reportHandler := handlers.NewReportHandler(reportSvc, exporter, tz)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditTable)
	publicHandler := handlers.NewPublicHandler(branchTable, listDatesUC, getAvailabilityUC, bookUC, a.Metrics, tz)

	branches := handlers.NewCRUDHandler(
		crud.NewService[models.Branch](branchTable, crud.Config[models.Branch]{
			Name: "branch", Rules: crud.BranchRules, Prepare: crud.PrepareBranch, New: crud.NewBranchForm,
			Guard: a.Guard, GuardEntity: guard.EntityBranch, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.Branch]{
			Filters: []handlers.QueryFilter{handlers.BoolFilter("active")},
			Order:   byName,
		},
	)
	doctors := handlers.NewCRUDHandler(
		crud.NewService[models.Doctor](infraRepo.NewGormTable[models.Doctor](db), crud.Config[models.Doctor]{
			Name: "doctor", Rules: crud.DoctorRules, Prepare: crud.PrepareDoctor, New: crud.NewDoctorForm,
			Guard: a.Guard, GuardEntity: guard.EntityDoctor, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.Doctor]{
			Filters: []handlers.QueryFilter{handlers.BoolFilter("active")},
			Order:   byName,
		},
	)
	supplierTypes := handlers.NewCRUDHandler(
		crud.NewService[models.SupplierType](infraRepo.NewGormTable[models.SupplierType](db), crud.Config[models.SupplierType]{
			Name: "supplier_type", Rules: crud.SupplierTypeRules, Prepare: crud.PrepareSupplierType,
			Guard: a.Guard, GuardEntity: guard.EntitySupplierType, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.SupplierType]{Order: byName},
	)
	suppliers := handlers.NewCRUDHandler(
		crud.NewService[models.Supplier](infraRepo.NewGormTable[models.Supplier](db), crud.Config[models.Supplier]{
			Name: "supplier", Rules: crud.SupplierRules, Prepare: crud.PrepareSupplier, New: crud.NewSupplierForm,
			Guard: a.Guard, GuardEntity: guard.EntitySupplier, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.Supplier]{
			Filters:  []handlers.QueryFilter{handlers.BoolFilter("active"), handlers.UintFilter("type_id")},
			Order:    byName,
			Preloads: []string{"Type"},
		},
	)
	categories := handlers.NewCRUDHandler(
		crud.NewService[models.ExpenseCategory](infraRepo.NewGormTable[models.ExpenseCategory](db), crud.Config[models.ExpenseCategory]{
			Name: "expense_category", Rules: crud.ExpenseCategoryRules, Prepare: crud.PrepareExpenseCategory,
			New:   crud.NewExpenseCategoryForm,
			Guard: a.Guard, GuardEntity: guard.EntityExpenseCategory, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.ExpenseCategory]{
			Filters: []handlers.QueryFilter{handlers.BoolFilter("active"), handlers.StringFilter("kind")},
			Order:   byName,
		},
	)
	fixedExpenses := handlers.NewCRUDHandler(
		crud.NewService[models.FixedExpense](fixedTable, crud.Config[models.FixedExpense]{
			Name: "fixed_expense", Rules: crud.FixedExpenseRules, New: crud.NewFixedExpenseForm, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.FixedExpense]{
			Filters:  []handlers.QueryFilter{handlers.BoolFilter("active"), handlers.UintFilter("category_id"), handlers.UintFilter("supplier_id")},
			Order:    []store.Order{{Column: "due_day"}, {Column: "id"}},
			Preloads: []string{"Category", "Supplier"},
			Branch:   func(e *models.FixedExpense) *uint { return &e.BranchID },
		},
	)
	diverseExpenses := handlers.NewCRUDHandler(
		crud.NewService[models.DiverseExpense](diverseTable, crud.Config[models.DiverseExpense]{
			Name: "diverse_expense", Rules: crud.DiverseExpenseRules, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.DiverseExpense]{
			Filters:    []handlers.QueryFilter{handlers.UintFilter("category_id"), handlers.UintFilter("supplier_id")},
			DateColumn: "date",
			DateFields: []string{"date"},
			Order:      []store.Order{{Column: "date", Desc: true}, {Column: "id", Desc: true}},
			Preloads:   []string{"Category", "Supplier"},
			Branch:     func(e *models.DiverseExpense) *uint { return &e.BranchID },
		},
	)
	instruments := handlers.NewCRUDHandler(
		crud.NewService[models.Instrument](instrumentTable, crud.Config[models.Instrument]{
			Name: "instrument", Rules: crud.InstrumentRules, Prepare: crud.PrepareInstrument, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.Instrument]{
			Filters:    []handlers.QueryFilter{handlers.StringFilter("kind"), handlers.StringFilter("status"), handlers.UintFilter("supplier_id")},
			DateColumn: "due_date",
			DateFields: []string{"due_date", "payment_date"},
			Order:      []store.Order{{Column: "due_date"}, {Column: "id"}},
			Preloads:   []string{"Supplier"},
			Branch:     func(i *models.Instrument) *uint { return &i.BranchID },
		},
	)
	serviceOrders := handlers.NewCRUDHandler(
		crud.NewService[models.ServiceOrderCost](orderTable, crud.Config[models.ServiceOrderCost]{
			Name: "service_order", Rules: crud.ServiceOrderRules, Prepare: crud.PrepareServiceOrder, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.ServiceOrderCost]{
			Filters:    []handlers.QueryFilter{handlers.StringFilter("number")},
			DateColumn: "date",
			DateFields: []string{"date"},
			Order:      []store.Order{{Column: "date", Desc: true}, {Column: "number"}},
			Branch:     func(o *models.ServiceOrderCost) *uint { return &o.BranchID },
		},
	)
	revenues := handlers.NewCRUDHandler(
		crud.NewService[models.RevenueEntry](revenueTable, crud.Config[models.RevenueEntry]{
			Name: "revenue", Rules: crud.RevenueRules, Audit: a.Audit,
		}),
		handlers.CRUDConfig[models.RevenueEntry]{
			Filters:    []handlers.QueryFilter{handlers.StringFilter("payment_method"), handlers.StringFilter("attendance_type")},
			DateColumn: "date",
			DateFields: []string{"date"},
			Order:      []store.Order{{Column: "date", Desc: true}, {Column: "id", Desc: true}},
			Branch:     func(e *models.RevenueEntry) *uint { return &e.BranchID },
		},
	)

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		limiter := middleware.NewRateLimiter(cfg.PublicRatePerMin, 10)
		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware(a.Log))
		{
			publicAPI.GET("/branches", publicHandler.ListBranches)
			publicAPI.GET("/branches/:id/dates", publicHandler.ListDates)
			publicAPI.GET("/branches/:id/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.Book)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", limiter.Middleware(a.Log), authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(a.Sessions))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			// cadastros
			mountCRUD(secured, "/branches", branches, nil, access.ManageBranches)
			mountCRUD(secured, "/doctors", doctors, nil, access.ManageDoctors)

			users := secured.Group("/users", middleware.RequireCapability(access.ManageUsers))
			users.GET("", usersHandler.List)
			users.POST("", usersHandler.Create)
			users.PUT("/:id", usersHandler.Update)
			users.DELETE("/:id", usersHandler.Delete)

			// financeiro
			finance := middleware.RequireCapability(access.ManageFinance)
			mountCRUD(secured, "/suppliers", suppliers, finance, access.ManageFinance)
			mountCRUD(secured, "/supplier-types", supplierTypes, finance, access.ManageFinance)
			mountCRUD(secured, "/expense-categories", categories, finance, access.ManageFinance)
			mountCRUD(secured, "/fixed-expenses", fixedExpenses, finance, access.ManageFinance)
			mountCRUD(secured, "/diverse-expenses", diverseExpenses, finance, access.ManageFinance)
			mountCRUD(secured, "/instruments", instruments, finance, access.ManageFinance)
			mountCRUD(secured, "/service-orders", serviceOrders, finance, access.ManageFinance)
			mountCRUD(secured, "/revenues", revenues, finance, access.ManageFinance)

			// agenda
			manageSchedule := middleware.RequireCapability(access.ManageSchedule)
			secured.GET("/branches/:id/schedule", manageSchedule, scheduleHandler.GetConfig)
			secured.PUT("/branches/:id/schedule", manageSchedule, scheduleHandler.SaveConfig)
			secured.GET("/available-dates", middleware.RequireCapability(access.ViewAppointments), scheduleHandler.ListDates)
			secured.POST("/available-dates/open", manageSchedule, scheduleHandler.OpenDates)
			secured.PATCH("/available-dates/:id", manageSchedule, scheduleHandler.SetDateActive)
			secured.DELETE("/available-dates/:id", manageSchedule, scheduleHandler.DeleteDate)

			// agendamentos
			secured.GET("/appointments", middleware.RequireCapability(access.ViewAppointments), appointmentHandler.List)
			manageAppointments := middleware.RequireCapability(access.ManageAppointments)
			secured.PATCH("/appointments/:id/status", manageAppointments, appointmentHandler.UpdateStatus)
			secured.PATCH("/appointments/:id/notes", manageAppointments, appointmentHandler.UpdateNotes)

			// relatórios
			reports := secured.Group("/reports", middleware.RequireCapability(access.ViewReports))
			reports.GET("/expenses", reportHandler.Expenses())
			reports.GET("/revenue", reportHandler.Revenue())
			reports.GET("/cmv", reportHandler.CMV())
			reports.GET("/instruments", reportHandler.Instruments())
			reports.GET("/dashboard", reportHandler.Dashboard())
			reports.GET("/expenses/pdf", reportHandler.PDF(ucReport.KindExpenses))
			reports.GET("/revenue/pdf", reportHandler.PDF(ucReport.KindRevenue))
			reports.GET("/cmv/pdf", reportHandler.PDF(ucReport.KindCMV))
			reports.GET("/instruments/pdf", reportHandler.PDF(ucReport.KindInstruments))

			secured.GET("/audit-logs", middleware.RequireCapability(access.ViewAudit), auditLogsHandler.List)
		}
	}
}

// mountCRUD registers list/get/create/update/delete. read guards the GET
// routes (nil = any signed-in user); writes always require the capability.
func mountCRUD[T any, PT crud.EntityPtr[T]](
	g *gin.RouterGroup,
	path string,
	h *handlers.CRUDHandler[T, PT],
	read gin.HandlerFunc,
	write access.Capability,
) {
	readChain := []gin.HandlerFunc{}
	if read != nil {
		readChain = append(readChain, read)
	}
	writeGuard := middleware.RequireCapability(write)

	g.GET(path, append(readChain, h.List)...)
	g.GET(path+"/:id", append(readChain, h.Get)...)
	g.POST(path, writeGuard, h.Create)
	g.PUT(path+"/:id", writeGuard, h.Update)
	g.DELETE(path+"/:id", writeGuard, h.Delete)
}
