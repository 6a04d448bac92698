package models

import (
	"github.com/go-playground/validator"

	domainerrors "taskmanager/internal/domain/errors"
)

var validate = validator.New()

var fieldNames = map[string]string{
	"Username":    "username",
	"Email":       "email",
	"Password":    "password",
	"Title":       "title",
	"Description": "description",
	"DueDate":     "dueDate",
	"Priority":    "priority",
	"Status":      "status",
}

var fieldMessages = map[string]map[string]string{
	"username": {
		"required": "Username must be at least 3 characters long",
		"min":      "Username must be at least 3 characters long",
		"max":      "Username cannot be more than 50 characters",
	},
	"email": {
		"required": "Please include a valid email",
		"email":    "Please include a valid email",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters long",
		"max":      "Password cannot be more than 72 characters",
	},
	"title": {
		"required": "Title is required",
		"max":      "Title cannot be more than 100 characters",
	},
	"description": {
		"required": "Description is required",
		"max":      "Description cannot be more than 500 characters",
	},
	"dueDate": {
		"required": "Please provide a valid due date",
	},
	"priority": {
		"required": "Priority must be low, medium, or high",
		"oneof":    "Priority must be low, medium, or high",
	},
	"status": {
		"required": "Status must be pending or completed",
		"oneof":    "Status must be pending or completed",
	},
}

// Validate runs the struct tags on a request DTO and folds every violation
// into a FieldErrors map keyed by the JSON field name. A nil return means the
// value passed.
func Validate(v interface{}) domainerrors.FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domainerrors.FieldErrors{"request": "Invalid request"}
	}

	fe := domainerrors.FieldErrors{}
	for _, verr := range verrs {
		field := fieldNames[verr.Field()]
		if field == "" {
			field = verr.Field()
		}
		if _, seen := fe[field]; seen {
			continue
		}
		if msg := fieldMessages[field][verr.Tag()]; msg != "" {
			fe[field] = msg
		} else {
			fe[field] = "Invalid value"
		}
	}
	return fe
}
