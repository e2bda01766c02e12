package query

// StatusAggregationSQL combines the partition-projected and standard ALB log
// tables and aggregates today's status code counts per target group.
const StatusAggregationSQL = `
SELECT
    target_group_arn,
    elb_status_code,
    SUM(error_count) AS error_count
FROM (
    SELECT
        target_group_arn,
        elb_status_code,
        COUNT(elb_status_code) AS error_count
    FROM alb_log_partition_projection
    WHERE day = date_format(current_date, '%Y/%m/%d')
    GROUP BY target_group_arn, elb_status_code

    UNION ALL

    SELECT
        target_group_arn,
        elb_status_code,
        COUNT(elb_status_code) AS error_count
    FROM alb_access_logs_internal
    WHERE day = date_format(current_date, '%Y/%m/%d')
    GROUP BY target_group_arn, elb_status_code
) combined
GROUP BY target_group_arn, elb_status_code
`
