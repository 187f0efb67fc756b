package config

// FirebaseEnabled reports whether hosted auth and messaging credentials are configured.
func FirebaseEnabled() bool {
	return AppConfig.FirebaseCredentials != ""
}

// DefaultBucket falls back to the conventional Firebase bucket for the project.
func DefaultBucket() string {
	if AppConfig.StorageBucket != "" {
		return AppConfig.StorageBucket
	}
	if AppConfig.FirebaseProjectID == "" {
		return ""
	}
	return AppConfig.FirebaseProjectID + ".appspot.com"
}
