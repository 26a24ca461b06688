package models

// Response is the JSON envelope every API endpoint replies with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PagedData wraps a paginated collection. PageNumber is 1-based.
type PagedData struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"totalCount"`
	PageNumber int         `json:"pageNumber"`
	PageSize   int         `json:"pageSize"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(data interface{}, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
