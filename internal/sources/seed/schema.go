package seed

// File is the top-level structure of a bug seed file:
//
//	bugs:
//	  - title: Login fails
//	    description: User cannot log in after password reset
//	    reporter: Alice
//	    priority: high
//	    tags: [auth, login]
type File struct {
	Bugs []Entry `yaml:"bugs"`
}

// Entry is one raw bug in the seed file. Entries go through the regular
// create contract, so the same rules apply as for API payloads.
type Entry struct {
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	Status           string   `yaml:"status,omitempty"`
	Priority         string   `yaml:"priority,omitempty"`
	Assignee         string   `yaml:"assignee,omitempty"`
	Reporter         string   `yaml:"reporter"`
	Tags             []string `yaml:"tags,omitempty"`
	StepsToReproduce string   `yaml:"stepsToReproduce,omitempty"`
	Environment      string   `yaml:"environment,omitempty"`
}
