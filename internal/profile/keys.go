package profile

// Storage keys.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

func userPrefix(identity string) string { return "user_" + identity }

// MoodsKey is the key holding identity's mood entries.
func MoodsKey(identity string) string { return userPrefix(identity) + "_moods" }

// TestsKey is the key holding identity's test results.
func TestsKey(identity string) string { return userPrefix(identity) + "_tests" }

// FavoritesKey is the key holding identity's favorite technique ids.
func FavoritesKey(identity string) string { return userPrefix(identity) + "_favorites" }

// CollectionKeys returns the three per-user keys in a fixed order.
func CollectionKeys(identity string) []string {
	return []string{MoodsKey(identity), TestsKey(identity), FavoritesKey(identity)}
}
