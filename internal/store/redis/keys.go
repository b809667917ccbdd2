package redis

const (
	// KeyPrefixBug is the prefix for individual bug documents.
	KeyPrefixBug = "bugtrack:bug:"
	// KeyAllBugs is the set holding every bug id.
	KeyAllBugs = "bugtrack:bugs:all"
)

// BugKey returns the Redis key for a bug document by id.
func BugKey(id string) string {
	return KeyPrefixBug + id
}

// AllBugsKey returns the key of the set of all bug ids.
func AllBugsKey() string {
	return KeyAllBugs
}
