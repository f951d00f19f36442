package cache

import "time"

// Cache - абстракция над кешом результатов проверки.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Stop()
}
