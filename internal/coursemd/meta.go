package coursemd

// TutorialMeta is the display metadata of a tutorial link.
type TutorialMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
}

// CourseMeta is the display metadata of a course link.
type CourseMeta struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Goal         string `json:"goal"`
	ThumbnailURL string `json:"thumbnailUrl"`
}
