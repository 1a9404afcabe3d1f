package service

import (
	"context"
	"encoding/json"

	"salonbook/internal/entity"
	"salonbook/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type securityLogger struct {
	logs   repository.SecurityLogRepository
	logger logrus.FieldLogger
}

// record writes an audit entry. Failures are logged and never fail the
// calling operation.
func (l securityLogger) record(
	ctx context.Context,
	identityID *uuid.UUID,
	identityType entity.IdentityType,
	email string,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	if l.logs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			payload = datatypes.JSON(data)
		}
	}
	err := l.logs.Log(ctx, &entity.SecurityLog{
		IdentityID:   identityID,
		IdentityType: identityType,
		Email:        email,
		IPAddress:    ipAddress,
		Action:       action,
		Metadata:     payload,
	})
	if err != nil {
		l.logger.WithError(err).WithField("action", action).Warn("failed to write security log")
	}
}
