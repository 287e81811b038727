package misc

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ServiceName = "recruitbase"

var serviceInstance = ServiceName + "-" + uuid.New().String()

func init() {
	logger := logrus.StandardLogger()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.JSONFormatter{}
	logger.AddHook(&DefaultFieldsHook{})
}

func GetServiceInstance() string {
	return serviceInstance
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["serviceName"] = ServiceName
	e.Data["serviceInstance"] = GetServiceInstance()
	return nil
}
