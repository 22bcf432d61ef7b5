package models

// Font is the singleton font setting.
type Font struct {
	Model
	FontColor  string  `gorm:"size:64" json:"fontColor"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `gorm:"size:255" json:"fontFamily"`
}

// Platform is the singleton platform description.
type Platform struct {
	Model
	Text  string `gorm:"type:text" json:"text"`
	Image string `gorm:"size:1024" json:"image"`
}

// Contact is the singleton contact text.
type Contact struct {
	Model
	Text string `gorm:"type:text" json:"text"`
}
