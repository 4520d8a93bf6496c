package metrics

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestForwardedMessage(t *testing.T) {
	entry := logrus.NewEntry(logrus.StandardLogger())
	entry.Message = "transaction failed"
	assert.Equal(t, "transaction failed", forwardedMessage(entry))

	entry = entry.WithFields(logrus.Fields{
		"payer":         "payer",
		logrus.ErrorKey: errors.New("insufficient funds"),
	})
	entry.Message = "transaction failed"
	assert.Equal(t, `message="transaction failed", error="insufficient funds", data={"payer":"payer"}`, forwardedMessage(entry))
}
