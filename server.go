package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/engine"
	"bitbucket.org/mmdatafocus/gstbilling/middlewares"
	"bitbucket.org/mmdatafocus/gstbilling/models"
	"bitbucket.org/mmdatafocus/gstbilling/remote"
	"bitbucket.org/mmdatafocus/gstbilling/store"
	"bitbucket.org/mmdatafocus/gstbilling/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type app struct {
	engine  *engine.Engine
	monitor *engine.Monitor
	store   *store.Store
	logger  *logrus.Logger
}

func main() {
	logger := config.GetLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local durable store. A broken SQLite file degrades to in-memory so the
	// user can still work the session; durability resumes on restart.
	var kv store.KV
	sqliteKV, err := store.OpenSQLiteKV(config.LocalStorePath())
	if err != nil {
		config.LogError(logger, "main", "main", "sqlite unavailable, using in-memory store", nil, err)
		kv = store.NewMemoryKV()
	} else {
		kv = sqliteKV
	}
	st := store.New(kv, logger)

	monitor := engine.NewMonitor()
	var live remote.LiveStore
	if addr := config.RemoteRedisAddress(); addr != "" && config.RemoteSyncEnabled() {
		rls := remote.NewRedisLiveStore(addr, config.RemoteRedisPassword(), logger)
		rls.OnConnState = monitor.SetOnline
		live = rls
	}

	eng := engine.New(st, live, monitor, logger, engine.Options{
		ResyncDelay:   config.ResyncDelay(),
		AutoResync:    config.AutoResyncEnabled(),
		FieldCryptKey: config.FieldCryptKey(),
	})

	a := &app{engine: eng, monitor: monitor, store: st, logger: logger}

	r := gin.New()
	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))
	r.Use(middlewares.AuthMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/status", a.statusHandler)
	r.POST("/connectivity", a.connectivityHandler)

	r.GET("/invoices", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.Invoices()) })
	r.POST("/invoices", a.saveInvoiceHandler)
	r.POST("/invoices/:id/status", a.markInvoiceStatusHandler)
	r.DELETE("/invoices/:id", a.deleteInvoiceHandler)

	r.GET("/customers", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.Customers()) })
	r.POST("/customers", a.upsertCustomerHandler)
	r.DELETE("/customers/:id", a.deleteCustomerHandler)

	r.GET("/products", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.Products()) })
	r.POST("/products", a.upsertProductHandler)
	r.DELETE("/products/:id", a.deleteProductHandler)

	r.GET("/purchases", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.Purchases()) })
	r.POST("/purchases", a.savePurchaseHandler)

	r.GET("/settings", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.Settings()) })
	r.POST("/settings", a.updateSettingsHandler)

	r.GET("/activity", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.ActivityLog()) })
	r.GET("/pending", func(c *gin.Context) { c.JSON(http.StatusOK, a.engine.PendingInvoices()) })
	r.POST("/sync", a.syncHandler)

	r.GET("/backup", a.backupHandler)
	r.POST("/restore", a.restoreHandler)

	r.POST("/auth/register", a.registerHandler)
	r.POST("/auth/login", a.loginHandler)
	r.POST("/auth/logout", a.logoutHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	if err := eng.Start(sigCtx); err != nil {
		config.LogError(logger, "main", "main", "engine start", nil, err)
	}

	logger.WithFields(logrus.Fields{
		"info": "engine started",
	}).Info("listening on http://localhost:", port)

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// --- status / connectivity ---

func (a *app) statusHandler(c *gin.Context) {
	acked, total := a.engine.Progress()
	c.JSON(http.StatusOK, gin.H{
		"online":        a.engine.Online(),
		"syncing":       a.engine.Syncing(),
		"loading":       a.engine.Loading(),
		"remote_ready":  a.engine.RemoteReady(),
		"pending_count": a.engine.PendingCount(),
		"subs_acked":    acked,
		"subs_total":    total,
	})
}

type connectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// connectivityHandler lets the hosting shell report network transitions the
// process cannot see itself (airplane mode, captive portals).
func (a *app) connectivityHandler(c *gin.Context) {
	var req connectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	a.monitor.SetOnline(*req.Online)
	c.JSON(http.StatusOK, gin.H{"online": a.monitor.Online()})
}

// --- domain handlers ---

type saveInvoiceRequest struct {
	models.NewInvoice
	Status models.InvoiceStatus `json:"status"`
}

func (a *app) saveInvoiceHandler(c *gin.Context) {
	var req saveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	inv, err := a.engine.SaveInvoice(c.Request.Context(), req.NewInvoice, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

type statusRequest struct {
	Status models.InvoiceStatus `json:"status" binding:"required"`
}

func (a *app) markInvoiceStatusHandler(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	inv, err := a.engine.MarkInvoiceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, utils.ErrorRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (a *app) deleteInvoiceHandler(c *gin.Context) {
	if err := a.engine.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (a *app) upsertCustomerHandler(c *gin.Context) {
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	customer, err := a.engine.UpsertCustomer(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (a *app) deleteCustomerHandler(c *gin.Context) {
	if err := a.engine.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (a *app) upsertProductHandler(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	product, err := a.engine.UpsertProduct(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *app) deleteProductHandler(c *gin.Context) {
	if err := a.engine.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (a *app) savePurchaseHandler(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	purchase, err := a.engine.SavePurchase(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (a *app) updateSettingsHandler(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	settings, err := a.engine.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (a *app) syncHandler(c *gin.Context) {
	count := a.engine.SyncPendingInvoices(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"synced": count, "pending": a.engine.PendingCount()})
}

// --- backup / restore ---

func (a *app) backupHandler(c *gin.Context) {
	payload := a.engine.BackupData()
	if c.Query("cloud") == "1" {
		bucket := config.BackupBucket()
		raw, err := json.Marshal(payload)
		if err == nil {
			object := "backups/gstbilling-" + time.Now().Format("20060102-150405") + ".json"
			err = utils.SaveBackupToGCS(c.Request.Context(), bucket, object, raw)
		}
		if err != nil {
			config.LogError(a.logger, "main", "backupHandler", "cloud copy failed", nil, err)
		}
	}
	c.JSON(http.StatusOK, payload)
}

func (a *app) restoreHandler(c *gin.Context) {
	var payload models.BackupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := a.engine.RestoreBackup(c.Request.Context(), payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

// --- auxiliary auth (local users + session token) ---

func (a *app) registerHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	users := a.store.LoadUsers()
	for _, u := range users {
		if strings.EqualFold(u.Username, input.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
			return
		}
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	role := input.Role
	if role == "" {
		role = "owner"
	}
	user := models.User{
		ID:           utils.NewId(),
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	a.store.SaveUsers(append(users, user))
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username, "role": user.Role})
}

func (a *app) loginHandler(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	for _, u := range a.store.LoadUsers() {
		if strings.EqualFold(u.Username, input.Username) {
			if err := utils.ComparePassword(u.PasswordHash, input.Password); err != nil {
				break
			}
			token, err := utils.JwtGenerate(u.ID, u.Role)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
				return
			}
			a.store.SaveSessionToken(token)
			c.JSON(http.StatusOK, gin.H{"token": token})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}

func (a *app) logoutHandler(c *gin.Context) {
	a.store.ClearSessionToken()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}
