// Package minio provides a MinIO backend for the shelfgo blobstore.
//
// It works against any S3-compatible endpoint (MinIO, Ceph RGW, GCS in
// interoperability mode). Change markers come from StatObject: size,
// LastModified and ETag.
package minio
