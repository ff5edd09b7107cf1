package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-billing-backend/controllers"
	"hotel-billing-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the billing core's HTTP surface. Every route carries an
// explicit :propertyId; nothing infers a current property from ambient state.
func SetupRouter(
	fc *controllers.FolioController,
	pc *controllers.PaymentController,
	cc *controllers.CorporateController,
	nc *controllers.NightAuditController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/properties/:propertyId")
	{
		folios := api.Group("/folios")
		{
			folios.POST("", fc.CreateFolio)
			folios.GET("/:id", fc.GetFolio)
			folios.GET("/:id/items", fc.GetFolioItems)
			folios.POST("/:id/charges", fc.PostCharge)
			folios.POST("/:id/close", fc.CloseFolio)
			folios.POST("/:id/payments", pc.RecordPayment)
			folios.POST("/:id/bill-corporate", pc.BillCorporate)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/distribute", pc.Distribute)
			payments.POST("/:id/void", pc.VoidPayment)
		}

		corporate := api.Group("/corporate-accounts")
		{
			corporate.GET("/:id", cc.GetAccount)
			corporate.GET("/:id/credit-check", cc.CreditCheck)
			corporate.GET("/:id/open-folios", cc.OpenFolios)
		}

		audit := api.Group("/night-audit")
		{
			audit.POST("/start", nc.Start)
			audit.POST("/:id/post-charges", nc.PostCharges)
			audit.POST("/:id/complete", nc.Complete)
			audit.GET("/:id", nc.Get)
			audit.GET("", nc.ByDate)
		}

		taxes := api.Group("/tax-configs")
		{
			taxes.GET("", controllers.GetTaxConfigs)
			taxes.POST("", controllers.CreateTaxConfig)
			taxes.POST("/:id/deactivate", controllers.DeactivateTaxConfig)
		}
	}

	return r
}
