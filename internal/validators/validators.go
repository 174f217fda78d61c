package validators

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"engraced_transport/internal/models"
)

type enumValue interface {
	~string
	IsValid() bool
}

func enum[T enumValue]() validator.Func {
	return func(fl validator.FieldLevel) bool {
		return T(fl.Field().String()).IsValid()
	}
}

var tags = map[string]validator.Func{
	"booking_type":   enum[models.BookingType](),
	"booking_status": enum[models.BookingStatus](),
	"payment_status": enum[models.PaymentStatus](),
	"vehicle_type":   enum[models.VehicleType](),
	"vehicle_status": enum[models.VehicleStatus](),
	"driver_status":  enum[models.DriverStatus](),
	"route_status":   enum[models.RouteStatus](),
	"trip_type":      enum[models.TripType](),
	"trip_status":    enum[models.TripStatus](),
	"user_role":      enum[models.UserRole](),
	"clock":          validateClock,
}

// Register adds the domain tags to v.
func Register(v *validator.Validate) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var ginOnce sync.Once

// RegisterWithGin installs the domain tags on gin's binding validator.
func RegisterWithGin() error {
	var err error
	ginOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		err = Register(v)
	})
	return err
}

func validateClock(fl validator.FieldLevel) bool {
	return models.IsClock(fl.Field().String())
}

// Describe turns binding errors into a short message listing the failing
// fields. Other errors are returned as-is.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), message(fe)))
	}
	return strings.Join(messages, "; ")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "clock":
		return "must be HH:MM or HH:MM:SS"
	}
	if _, ok := tags[fe.Tag()]; ok {
		return fmt.Sprintf("%q is not a valid %s", fe.Value(), strings.ReplaceAll(fe.Tag(), "_", " "))
	}
	return "failed " + fe.Tag() + " validation"
}
