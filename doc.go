// Package collector lists and downloads the objects of an object-storage
// bucket to local disk.
//
// A Client checks that a bucket exists, checks whether it has content, and
// pulls every object down to destination/key. Provider failures during
// enumeration and listing are reported inside the returned results rather
// than as Go errors; failures while fetching or writing an individual object
// stop the download and are returned as *errors.Error.
//
// Example usage:
//
//	src := credentials.NewChain(credentials.NewEnv())
//	client, err := collector.New(ctx, src, collector.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	outcome, err := client.DownloadFromBucket(ctx, "logs-2023", "/tmp/out")
//	if err != nil {
//	    return err
//	}
//	_ = collector.Report(os.Stdout, outcome)
package collector
