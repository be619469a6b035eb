// internal/models/parameter.go
package models

// Parameter is a key/value configuration row. Alert thresholds and
// colors live here so operators can tune them without a redeploy.
type Parameter struct {
	BaseModel
	Name        string        `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Value       string        `json:"value" gorm:"type:text;not null"`
	Type        ParameterType `json:"type" gorm:"type:varchar(10);not null;default:'string'"`
	Description string        `json:"description" gorm:"type:text"`
}

// Parameter names that seed the alert classifier and may not be deleted.
const (
	ParamAlertUrgent    = "alert_urgent"
	ParamAlertImportant = "alert_important"
	ParamAlertMedium    = "alert_medium"
	ParamAlertLow       = "alert_low"
	ParamColorExpired   = "color_expired"
	ParamColorUrgent    = "color_urgent"
	ParamColorImportant = "color_important"
	ParamColorMedium    = "color_medium"
	ParamColorLow       = "color_low"
)

var protectedParameters = map[string]bool{
	ParamAlertUrgent:    true,
	ParamAlertImportant: true,
	ParamAlertMedium:    true,
	ParamAlertLow:       true,
	ParamColorExpired:   true,
	ParamColorUrgent:    true,
	ParamColorImportant: true,
	ParamColorMedium:    true,
	ParamColorLow:       true,
}

func IsProtectedParameter(name string) bool {
	return protectedParameters[name]
}
