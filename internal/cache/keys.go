package cache

// PrefixRepository namespaces repository entries in shared stores
const PrefixRepository = "gtraverse:repo:"

// storageKey maps a cache key onto the backend keyspace
func storageKey(key string) string {
	return PrefixRepository + key
}
