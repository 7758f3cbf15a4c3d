package logger

// Standard field names for consistent logging.
const (
	FieldService = "service"
	FieldUserID  = "user_id"
	FieldChatID  = "chat_id"
	FieldGroupID = "group_id"
)
