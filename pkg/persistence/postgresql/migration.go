package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE pipelines (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_pipelines_name ON pipelines(name);
			CREATE INDEX idx_pipelines_created_at ON pipelines(created_at);
		`,
		2: `
			CREATE TABLE runs (
				id VARCHAR(255) PRIMARY KEY,
				pipeline_id UUID NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'running', 'succeeded', 'failed', 'cancelled')),
				event JSONB NOT NULL,
				results JSONB,
				concurrency_group VARCHAR(512),
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				finished_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_runs_pipeline_id ON runs(pipeline_id);
			CREATE INDEX idx_runs_status ON runs(status);
			CREATE INDEX idx_runs_started_at ON runs(started_at);
		`,
	}
}
