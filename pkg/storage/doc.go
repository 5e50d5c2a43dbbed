// Package storage persists rendered QR code images.
//
// Storage has two implementations: S3Storage on aws-sdk-go-v2 for
// production and LocalStorage for development and the CLI. New picks one
// from Config.
//
//	store, err := storage.New(ctx, cfg.Storage)
//	if err != nil {
//		return err
//	}
//	key := "codes/" + id + ".png"
//	if err := store.Put(ctx, key, art.Data, art.MIMEType); err != nil {
//		return err
//	}
//	url := store.URL(key)
//
// Keys are slash separated and may not contain "..".
package storage
