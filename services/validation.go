package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ApplicationDraft ฟิลด์ที่ผู้สมัครกรอก ใช้ทั้งตอนสร้างและแก้ไข
// tag `binding` ใช้ร่วมกับ gin
type ApplicationDraft struct {
	FirstName    string             `json:"firstName" binding:"required,notblank"`
	LastName     string             `json:"lastName" binding:"required,notblank"`
	PhoneNumber  string             `json:"phoneNumber" binding:"required,notblank"`
	Age          int                `json:"age" binding:"required,gte=18,lte=70"`
	Gender       entity.Gender      `json:"gender" binding:"required,oneof=male female other prefer_not_to_say"`
	VehicleType  entity.VehicleType `json:"vehicleType" binding:"required,oneof=bicycle motorcycle car scooter e-bike"`
	WorkingHours string             `json:"workingHours" binding:"required,notblank"`
}

// ApplicationPatch: partial update, nil = ไม่แก้
type ApplicationPatch struct {
	FirstName    *string             `json:"firstName" binding:"omitempty,notblank"`
	LastName     *string             `json:"lastName" binding:"omitempty,notblank"`
	PhoneNumber  *string             `json:"phoneNumber" binding:"omitempty,notblank"`
	Age          *int                `json:"age" binding:"omitempty,gte=18,lte=70"`
	Gender       *entity.Gender      `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	VehicleType  *entity.VehicleType `json:"vehicleType" binding:"omitempty,oneof=bicycle motorcycle car scooter e-bike"`
	WorkingHours *string             `json:"workingHours" binding:"omitempty,notblank"`
}

// PatchFromDraft: the form always sends every field.
func PatchFromDraft(d ApplicationDraft) ApplicationPatch {
	return ApplicationPatch{
		FirstName:    &d.FirstName,
		LastName:     &d.LastName,
		PhoneNumber:  &d.PhoneNumber,
		Age:          &d.Age,
		Gender:       &d.Gender,
		VehicleType:  &d.VehicleType,
		WorkingHours: &d.WorkingHours,
	}
}

func (p ApplicationPatch) columns() map[string]any {
	out := map[string]any{}
	if p.FirstName != nil {
		out["first_name"] = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		out["last_name"] = strings.TrimSpace(*p.LastName)
	}
	if p.PhoneNumber != nil {
		out["phone_number"] = strings.TrimSpace(*p.PhoneNumber)
	}
	if p.Age != nil {
		out["age"] = *p.Age
	}
	if p.Gender != nil {
		out["gender"] = *p.Gender
	}
	if p.VehicleType != nil {
		out["vehicle_type"] = *p.VehicleType
	}
	if p.WorkingHours != nil {
		out["working_hours"] = strings.TrimSpace(*p.WorkingHours)
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterValidations ใส่ rule เสริมที่ tag `binding` ใช้ ต้องเรียกกับ validator ของ gin ด้วย
func RegisterValidations(v *validator.Validate) error {
	// required ผ่าน "   " ได้ แต่เราเก็บหลัง TrimSpace
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// Validate runs the same rules gin applies on binding.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &StoreError{Kind: StoreInvalid, Op: "validate", Err: err}
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: describe(fe), Rule: fe.Tag()})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid (" + fe.Tag() + ")"
}
