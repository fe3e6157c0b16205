package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/majanidev/insurance_backend/models"
	"github.com/majanidev/insurance_backend/utils"
)

const exportTokenLifespan = 5 * time.Minute

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "login")
		defer span.End()

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		info, err := models.Login(ctx, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrorInvalidCredentials):
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			case errors.Is(err, utils.ErrorUserDisabled):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			}
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil || !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type changePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func changePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "new password and confirmation are required"})
			return
		}
		profile, err := models.ChangePassword(c.Request.Context(), req.NewPassword, req.ConfirmPassword)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func getProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := models.GetProfile(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func updateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewProfile
		if err := c.ShouldBindJSON(&req); err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":  "please fill in all required fields",
					"fields": utils.ProcessValidationErrors(err),
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		profile, err := models.UpdateProfile(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func getSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := models.CurrentAgentSettings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

func updateBusinessSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewBusinessSettings
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		settings, err := models.UpdateBusinessSettings(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

func updatePreferencesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewPreferences
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		settings, err := models.UpdatePreferences(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

func dashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "dashboard-stats")
		defer span.End()

		summary, err := models.GetDashboardStats(ctx, time.Now().UTC())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func listClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "list-clients")
		defer span.End()

		rows, err := models.ListClients(ctx, c.Query("search"), c.Query("status"), time.Now().UTC())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load clients"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"clients": rows, "total": len(rows)})
	}
}

func createClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "create-client")
		defer span.End()

		var req models.NewClient
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		client, err := models.CreateClient(ctx, &req)
		if err != nil {
			var vErr *models.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save client"})
			return
		}
		c.JSON(http.StatusCreated, client.Row(time.Now().UTC()))
	}
}

func getClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := models.GetClient(c.Request.Context(), c.Param("id"), time.Now().UTC())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// updateClientHandler is a placeholder; client editing is not built yet.
func updateClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := utils.ValidateResourceId[models.Client](c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusNotImplemented, gin.H{"error": "editing clients is coming soon"})
	}
}

func deleteClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := models.DeleteClient(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "deleted": client.ID})
	}
}

func exportTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := utils.JwtGenerate(userId, utils.PurposeExport, exportTokenLifespan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue export token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func exportClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "export-clients")
		defer span.End()

		claims, err := utils.JwtValidate(c.Query("token"), utils.PurposeExport)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ctx = utils.SetUserIdInContext(ctx, claims.ID)

		now := time.Now().UTC()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+models.ExportFilename(now))
		if err := models.ExportClientsExcel(ctx, c.Writer, now); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}
