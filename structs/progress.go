package structs

type MarkWordRequest struct {
	Day  int    `json:"day"`
	Word string `json:"word"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}
