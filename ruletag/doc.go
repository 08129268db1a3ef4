// Package ruletag harvests validation rule declarations from `vet` struct
// tags. Tags only declare rules; nothing is registered until the source is
// loaded into a registry.
//
// Example:
//
//	type Course struct {
//	    Title string  `vet:"required,minlen:1"`
//	    Price float64 `vet:"positive,max:500"`
//	}
//
//	err := reg.LoadFrom(ctx, ruletag.New("course", Course{}))
package ruletag
