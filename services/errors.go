package services

import (
	"errors"
	"fmt"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/assets"
	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidAsset Kind = "invalid_asset"
	KindValidation   Kind = "validation_failed"
	KindStorage      Kind = "storage_failure"
)

// Error is the only error type the services hand to callers. Message is
// safe to show to clients; Err is for logs.
type Error struct {
	Kind    Kind
	Message models.Message
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message.En, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message.En)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err, or KindStorage for anything unclassified.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}

func packageNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: models.Message{
		En: "Offered meal package not found",
		Ar: "باقة الوجبات غير موجودة",
	}}
}

func mealNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: models.Message{
		En: "Offered meal not found",
		Ar: "الوجبة غير موجودة",
	}}
}

func invalidAsset(slot string, err error) *Error {
	return &Error{
		Kind: KindInvalidAsset,
		Message: models.Message{
			En: fmt.Sprintf("Invalid file type for %s. Only jpg, jpeg, png, gif and bmp images are allowed", slot),
			Ar: fmt.Sprintf("نوع الملف غير صالح لـ %s. يسمح فقط بصور jpg و jpeg و png و gif و bmp", slot),
		},
		Err: err,
	}
}

func somethingWentWrong(err error) *Error {
	return &Error{
		Kind: KindStorage,
		Message: models.Message{
			En: "Something went wrong, please try again later",
			Ar: "حدث خطأ ما، يرجى المحاولة مرة أخرى لاحقاً",
		},
		Err: err,
	}
}

// assetError maps an asset store failure for slot to a service error.
func assetError(slot string, err error) error {
	if errors.Is(err, assets.ErrInvalidExtension) {
		return invalidAsset(slot, err)
	}
	return somethingWentWrong(err)
}
