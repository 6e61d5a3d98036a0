/*
Package operation sequences the build and board steps of a deploy.

	+-------+    +-------+    +--------+    +-------+
	| build | -> | erase | -> | upload | -> | reset |
	+-------+    +-------+    +--------+    +-------+

🎯 Purpose:
- Wraps the stager and the board tools as Operations
- Runs them in a fixed order, printing a start and a done line for each
- Keeps going when the build fails

🔄 Flow:
1. Prepends the tool directory to PATH
2. Stages the project (a failure is printed and ignored)
3. Erases the board
4. Uploads the stage
5. Resets the board

⚠️ Failure policy:
Board commands that exit non-zero are logged by the device runner and never
reach this package. What does reach it (the tool cannot be started, the stage
directory cannot be read) stops the pipeline. There is no rollback and no
summary of what went wrong; the printed lines are the record.

🔍 Example:

	p := operation.NewPipeline(operation.Options{
		Config:   cfg,
		Executor: device.NewExecExecutor(),
	}, status.NewReporter(ctx, os.Stdout))

	if err := p.Deploy(ctx); err != nil {
		return err
	}
*/
package operation
