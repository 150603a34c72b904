// Package s3 provides an Amazon S3 backend for the shelfgo blobstore.
//
// [Store] maps the catalog blob to a single S3 object; [VersionedStore]
// adds a DynamoDB version row that gives the change marker a monotonic
// component and detects concurrent external writers, which plain S3 cannot.
package s3
