package models

// SaveResult reports what a persistence save wrote.
type SaveResult struct {
	StudentsSaved  int    `json:"students_saved"`
	PostsSaved     int    `json:"posts_saved"`
	StudentsTarget string `json:"students_target"`
	PostsTarget    string `json:"posts_target"`
}

// LoadResult reports what a persistence load restored. Fresh is set when neither document
// held any records.
type LoadResult struct {
	StudentsLoaded int  `json:"students_loaded"`
	PostsLoaded    int  `json:"posts_loaded"`
	Fresh          bool `json:"fresh"`
}
