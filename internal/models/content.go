package models

type BlogPost struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Excerpt  string `yaml:"excerpt" json:"excerpt"`
	Category string `yaml:"category" json:"category"`
	Author   string `yaml:"author" json:"author"`
	Date     string `yaml:"date" json:"date"`
	ImageURL string `yaml:"image_url" json:"imageUrl"`
	ReadTime string `yaml:"read_time" json:"readTime"`
	Content  string `yaml:"content" json:"content"`
}

// Recommendation is a themed list of eco tips, looked up by area id.
type Recommendation struct {
	ID    string   `yaml:"id" json:"id"`
	Title string   `yaml:"title" json:"title"`
	Tips  []string `yaml:"tips" json:"tips"`
}

type QuizQuestion struct {
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
}
