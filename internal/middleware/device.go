package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/logger"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DeviceCookie = "hr_device"
	DeviceHeader = "X-Device-ID"

	deviceCookieMaxAge = 3600 * 24 * 365

	instanceKey = "instance"
	deviceKey   = "deviceID"
)

// InstanceSource hands out the application instance of a device
type InstanceSource interface {
	Get(ctx context.Context, deviceID string) (*auth.Instance, error)
}

// DeviceOptions control how the device cookie is written
type DeviceOptions struct {
	// Secure selects SameSite=None + Secure for cross-origin production deployments
	Secure bool
	Now    func() time.Time
}

// Device binds the request to an application instance. The device id comes
// from the X-Device-ID header, then the hr_device cookie; a missing or
// malformed id is replaced by a fresh one and the cookie is (re)issued.
func Device(src InstanceSource, opts DeviceOptions, log *logger.Logger) gin.HandlerFunc {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(c *gin.Context) {
		deviceID := c.GetHeader(DeviceHeader)
		if !auth.ValidDeviceID(deviceID) {
			deviceID, _ = c.Cookie(DeviceCookie)
		}
		if !auth.ValidDeviceID(deviceID) {
			deviceID = uuid.NewString()
		}
		SetDeviceCookie(c, deviceID, opts.Secure)

		inst, err := src.Get(c.Request.Context(), deviceID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, auth.ErrInvalidDeviceID) {
				status = http.StatusBadRequest
			}
			log.WithError(err).WithField("device", deviceID).Error("failed to load application instance")
			c.AbortWithStatusJSON(status, response.Error(status, "Failed to load session"))
			return
		}

		if err := inst.Resolver.Refresh(c.Request.Context(), opts.Now()); err != nil {
			log.WithError(err).WithField("device", deviceID).Warn("session refresh failed")
		}

		c.Set(deviceKey, deviceID)
		c.Set(instanceKey, inst)
		c.Next()
	}
}

// SetDeviceCookie writes the device id as an HttpOnly cookie
func SetDeviceCookie(c *gin.Context, deviceID string, secure bool) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(DeviceCookie, deviceID, deviceCookieMaxAge, "/", "", secure, true)
}

// InstanceFrom returns the instance bound by Device, or nil
func InstanceFrom(c *gin.Context) *auth.Instance {
	v, ok := c.Get(instanceKey)
	if !ok {
		return nil
	}
	inst, _ := v.(*auth.Instance)
	return inst
}

// DeviceIDFrom returns the device id bound by Device
func DeviceIDFrom(c *gin.Context) string {
	return c.GetString(deviceKey)
}

// IdentityFrom returns the resolved identity of the request, or nil when signed out
func IdentityFrom(c *gin.Context) *auth.Identity {
	inst := InstanceFrom(c)
	if inst == nil {
		return nil
	}
	return inst.Auth.Identity()
}
